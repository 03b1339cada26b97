// Package basecamp talks to the Basecamp classic REST/XML API.
//
// # Core Components
//
// - Client: one lazily opened connection, basic auth with the API key, XML headers
// - API: typed operations (list messages, todo lists and items, upload, comment, complete)
// - Listing: id-keyed results that keep the order the server returned them in
//
// # Usage
//
//	client, err := basecamp.NewClient(basecamp.Options{
//	    BaseURL: "https://example.basecamphq.com/",
//	    APIKey:  key,
//	}, log)
//	api := basecamp.NewAPI(client, log)
//
//	messages, err := api.ListMessages(ctx, projectID)
//	fileID, err := api.UploadPatch(ctx, patch)
//	commentID, err := api.PostComment(ctx, basecamp.Comment{...})
//
// # Status Codes
//
// The Client returns every response as is. The API decides what success
// means: 200 for reads, 201 for every create (upload and comment). The
// status of a completion is handed back to the caller unchanged.
//
// # Error Handling
//
// Network and TLS failures wrap errors.ErrTransport, rejected responses are
// *errors.StatusError values matching errors.ErrUnexpectedStatus, and
// unreadable bodies wrap errors.ErrMalformedResponse. Nothing is retried.
package basecamp
