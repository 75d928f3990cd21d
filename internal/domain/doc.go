// Package domain models the Verified Response Network provider registry.
//
// # Data Source
//
// Provider listings live in a spreadsheet-backed record store (Airtable).
// The store is read through either a public read-only shared view
// (?format=json) or the token-gated REST API. Both return the same envelope:
//
//	{"records": [{"id": "rec...", "createdTime": "...", "fields": {...}}], "offset": "..."}
//
// Only "fields" is interpreted. Any other top-level shape decodes to an empty
// record set rather than an error.
//
// # Column Conventions
//
// Column names are edited by hand in the sheet and drift over time, so each
// provider attribute is resolved through an ordered alias list. The first alias
// whose value is non-empty wins:
//
//	name:          "Provider Name", "Name"
//	category:      "Provider Type", "Category"       (fallback "Service Provider")
//	regions:       "Regions Served"                  (multi-select, joined with ", ")
//	mobilization:  "Mobilization Window"
//	badges:        "Badges Earned"                   (multi-select, scalar -> one badge)
//	phone:         "Primary Contact Phone", "Phone"
//	email:         "Primary Contact Email", "Email"
//	website:       "Website"
//
// Cell values arrive as strings, lists (multi-select and lookup columns),
// numbers, booleans, or are absent entirely when the cell is blank. Numbers and
// booleans keep their JSON text; objects (attachments, collaborators) and nulls
// count as absent.
//
// Records without a resolvable name are dropped silently. Nothing is
// deduplicated: two rows with the same name are two providers.
//
// # Search
//
// A search is submitted, not live: form edits are tracked in [SearchState] but
// only a [Submit] event runs [Evaluate]. The disaster category is collected but
// does not narrow results yet; location is a case-insensitive substring match
// against the regions a provider serves.
package domain
