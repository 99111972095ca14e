// Package llm defines the types and interfaces for the chat-completion
// client.
//
// The package holds the domain types (Message, CompletionOptions,
// CompletionResponse), the Config with its defaults and environment
// constructor, and the Client interface. The concrete implementation is
// provided by the llmclient package:
//
//	cli, err := llmclient.NewFromEnv("openai/gpt-4o-mini")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := cli.CompleteWithSystem(ctx, "Be terse.", "Explain HTTP 429.", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	text, err := resp.Content()
//
// CompletionOptions are validated before any request is sent; an
// out-of-range option such as a negative MaxTokens surfaces as a
// configuration error from Complete, never as an API round trip.
package llm
