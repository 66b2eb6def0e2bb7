// Package mocks provides mock implementations for testing the tab-session service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// storage and event-bus ports. The mocks are generated using go:generate directives.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockStore := mocks.NewMockStorage(ctrl)
//	mockStore.EXPECT().GetTab(gomock.Any(), "tab-1", "access_token").Return("", false, errStorageDown)
package mocks

// Generate mock for the Storage port from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=storage_mock.go github.com/agrilink/tab-session-api/internal/ports Storage

// Generate mock for the EventBus port from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=eventbus_mock.go github.com/agrilink/tab-session-api/internal/ports EventBus
