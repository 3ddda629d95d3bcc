// Package all links every storage backend into the binary so their init
// registrations run. Import it for side effects only.
package all

import (
	_ "ventas/internal/storage/postgres"
	_ "ventas/internal/storage/sqlite"
)
