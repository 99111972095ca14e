// Package tracker provides types, interfaces, and helpers for working
// with the issue tracker API.
//
// # Overview
//
// The tracker package defines the domain types (Issue, Queue, User,
// Transition) and the interfaces for resource-oriented clients
// (IssuesClient, QueuesClient, SearchClient, UsersClient). A concrete
// implementation is provided by the trackerclient package, which wires
// configuration, transport, authentication, and retries. Most consumers
// should import trackerclient to construct a client and then interact
// with the interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/JonFir/multitool/pkg/tracker"
//	  "github.com/JonFir/multitool/pkg/trackerclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := trackerclient.New(tracker.NewConfig("token", "org-id"))
//	  if err != nil { log.Fatal(err) }
//
//	  issue, err := cli.Issues().Get(ctx, "TEST-1", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = issue
//	}
//
// # Queries and pagination
//
// Use QueryParams to express list options (page, perPage, order, expand,
// filters). Iterate or collect paginated results with PageIterator,
// FetchAllPages, or StreamPages.
//
// # Partial updates
//
// Issue updates are built with UpdateBuilder and the FieldUpdate
// constructors Add, Remove, Set, Replace, and Clear:
//
//	body, err := tracker.NewUpdateBuilder().
//	  Summary("New summary").
//	  Field("followers", tracker.Add("user1", "user2")).
//	  Build()
//
// # Caching
//
// A pluggable Cache abstraction with in-memory and NATS KV backends can
// be attached to the client to serve repeated reads locally.
package tracker
