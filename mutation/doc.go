// Package mutation binds writes against the remote API to the cache keys
// they make stale.
//
// # Overview
//
// A Mutation names the resource it writes, the kind of write and, for
// updates and deletes, the affected id. Run executes it and on success
// invalidates exactly the keys returned by Mutation.Keys:
//
//	create  -> products
//	update  -> products, products::p1
//	delete  -> products, products::p1
//
// Invalidation is explicit. Nothing is matched by key prefix; extra keys
// are listed in Mutation.Also.
//
// # Failures
//
// A failed mutation invalidates nothing. The error is passed to
// Hooks.OnError and returned unchanged, so callers can keep an edit form
// open and show the message:
//
//	var form mutation.Form[model.Category]
//	form.Open()
//	_, err := mutation.Run(ctx, orch, mutation.Mutation[model.Category]{
//		Resource: "categories",
//		Kind:     mutation.KindCreate,
//		Do:       func(ctx context.Context) (model.Category, error) { return categories.Create(ctx, draft) },
//	}, form.Hooks(mutation.Hooks[model.Category]{}))
//
// Mutations are neither queued nor batched. Two concurrent writes to the
// same resource are both sent and the cache converges on whichever refetch
// resolves last.
package mutation
