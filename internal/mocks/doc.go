// Package mocks provides shared test doubles for the gateway, store and
// token verifier ports.
//
// Each mock has function fields for custom behavior and falls back to fixed
// values or an in-memory implementation when they are nil:
//
//	gateway := &mocks.MockGateway{
//	    SendFn: func(ctx context.Context, msg string) (*generation.ChatResponse, error) {
//	        return mocks.ChatResponseWithContent(`{"flashcards":[]}`), nil
//	    },
//	}
//	generations := &mocks.MockGenerationStore{}
//	verifier := mocks.NewMockTokenVerifierForUser(userID)
package mocks
