// Package state drives the per-screen fetch lifecycle for sleeve.
//
// # Overview
//
// Every screen needs exactly one piece of remote data. The Controller turns
// that single asynchronous fetch into state the UI can render synchronously
// at any moment:
//
//	Loading ──fetch ok──→ Loaded(data)
//	   │
//	   └────fetch err───→ Failed(err)
//
// Loaded and Failed are terminal. There is no refresh or retry; a screen
// that wants fresh data creates a new Controller.
//
// # Core Types
//
// ViewState[T]:
//   - Phase, plus Data when Loaded or Err when Failed
//   - Activation id and start/settle timestamps for diagnostics
//   - Returned by value; T is stored verbatim (list order is preserved)
//
// Controller[T]:
//   - One per screen activation, never shared or reused
//   - Runs its Fetcher at most once (sync.Once)
//   - Guards state with a sync.RWMutex so the fetch goroutine and the
//     render loop can touch it concurrently
//
// # Activation Scope
//
// New derives a cancellable context from the caller's context and tags it
// with a fresh UUID (see ActivationFrom). The fetcher receives that context.
//
// Close marks the activation as gone and cancels the context:
//
//	ctrl := state.New(ctx, fetchAlbums)
//	go ctrl.Run()
//	...
//	ctrl.Close() // screen unmounted
//
// If the fetch completes after Close (for example because the transport
// ignored cancellation) the result is dropped and the state stays Loading.
// Discarded reports when that happened. Calling Run after Close never starts
// the fetch.
//
// # Error Handling
//
// The controller does not interpret errors. Any error moves the state to
// Failed; the caller decides how to present it. WithClassifier only affects
// the "kind" log field written on failure.
//
// # Logging
//
// Transitions are logged through logrus with an "activation" field: fetch
// start and close at debug, success at info, failure at warn.
package state
