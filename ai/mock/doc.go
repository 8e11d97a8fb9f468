// Package mock provides test doubles for the ai interfaces.
//
// The mocks use function fields for behavior injection and default to
// deterministic output (FNV-seeded vectors, canned answers) so tests run
// without any external AI service.
package mock
