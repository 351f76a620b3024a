// Package attio is a Go client for the Attio CRM REST API.
//
// The entry point is Client, created with NewClient. Each Attio resource
// type (records, objects, lists, tasks, ...) is exposed as a service on
// the client:
//
//	client := attio.NewClient(os.Getenv("ATTIO_API_KEY"))
//	page, err := client.Records.List(ctx, "companies", attio.ListParams{Limit: 50})
//
// Resources returned by a service carry their attributes in normalized
// form: Attio's wire wrappers ({"value": ...} objects, reference objects,
// single-element arrays for single-cardinality attributes) are unwrapped
// on read and reapplied on write. Mutations are tracked per instance, so
// Save issues a partial update containing only the attributes that differ
// from their loaded values.
package attio

// DefaultBaseURL is the production Attio API endpoint.
const DefaultBaseURL = "https://api.attio.com/v2"

// Version is the SDK version reported in the User-Agent header.
const Version = "0.3.0"
