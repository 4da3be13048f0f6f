package migrations

import "embed"

// FS carries the planning schema migrations. The migrator serves them to
// golang-migrate through the iofs source driver.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the current binary expects.
const Version = 1
