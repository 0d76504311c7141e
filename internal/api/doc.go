// Package api provides the HTTP REST API server for minetel.
//
// It exposes sensor reading queries and creation to authenticated clients,
// plus one public read-only mirror endpoint, over JSON.
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// # Endpoints
//
//	GET  /health                 liveness, no auth
//	GET  /datos                  public mirror of the reading list, no auth
//	GET  /readings/              list readings            (X-API-KEY)
//	GET  /readings/filter/       single-field equality    (X-API-KEY)
//	GET  /readings/{reading_id}  reading by id            (X-API-KEY)
//	POST /readings/              create a reading         (X-API-KEY)
//
// # Access Gate
//
// Protected routes require the X-API-KEY header to exactly match one of the
// configured keys. The key set is built once at startup; a rejected request
// never touches the store.
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
package api
