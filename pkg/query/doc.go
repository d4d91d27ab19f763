// Package query is a client-side cache of server state with optimistic
// mutations.
//
// A [Client] holds one entry per string key. Entries are loaded by a
// registered fetcher and replaced by [SetData] or by a successful fetch.
// Every write bumps the entry's generation; a fetch only stores its result
// if the generation it started with is still current, so a slow response
// can never overwrite a newer local value.
//
// [Mutate] changes an entry provisionally, calls the server in the
// background and then either keeps the change or restores the value it
// replaced. While at least one mutation on a key is unsettled, fetches of
// that key are deferred and run once after the last one settles.
//
//	c := query.New(query.WithLogger(log))
//	defer c.Close()
//
//	query.Register(c, "tasks", api.ListTasks)
//	_ = c.Fetch(ctx, "tasks")
//
//	m := query.Mutate(ctx, c, "tasks",
//	    func(ts []Task) []Task { return toggle(ts, id) },
//	    func(ctx context.Context) error { return api.Toggle(ctx, id) },
//	)
//	if err := m.Wait(ctx); errors.Is(err, query.ErrRemoteFailure) {
//	    // cache already shows the previous list again
//	}
package query
