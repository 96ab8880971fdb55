// Package legparsers imports all leg parser packages to trigger their
// init() registration. Import this package for side effects only.
package legparsers

import (
	// Import all leg parsers to register them with the registry.
	_ "flightplan_parser/internal/legparsers/dead"
	_ "flightplan_parser/internal/legparsers/landing"
	_ "flightplan_parser/internal/legparsers/other"
	_ "flightplan_parser/internal/legparsers/science"
	_ "flightplan_parser/internal/legparsers/takeoff"
)
