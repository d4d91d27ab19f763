// Package client is the Go SDK for the task API.
//
// [Client] authenticates either with a bearer token, the way mobile and
// command line clients do, or with a cookie jar that carries the session
// cookie like a browser. Status 401 maps to [ErrUnauthorized], 404 to
// [ErrNotFound] and every other failure to an [APIError].
//
// [TaskList] keeps the list in a [query.Client] and applies writes
// optimistically:
//
//	api, _ := client.New("https://api.example.com", client.WithBearerToken(token))
//	cache := query.New()
//	defer cache.Close()
//
//	list := client.NewTaskList(api, cache)
//	_ = list.Refresh(ctx)
//
//	m := list.Toggle(ctx, id) // list.Tasks() already shows the flip
//	if err := m.Wait(ctx); err != nil {
//	    // the flip was undone
//	}
package client
