// Copyright 2025 Minbar AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import "github.com/minbar-ai/minbar/storage"

// Repositories bundles every repository over one shared backend.
type Repositories struct {
	Corpus    storage.CorpusRepository
	Users     storage.UserRepository
	Sessions  storage.SessionRepository
	History   storage.HistoryRepository
	Citations storage.CitationRepository

	backend *Backend
}

// Backend exposes the shared backend, mainly for test assertions.
func (r *Repositories) Backend() *Backend {
	return r.backend
}

// Close closes every repository and then the shared backend.
func (r *Repositories) Close() error {
	r.Users.Close()
	r.Sessions.Close()
	r.History.Close()
	r.Citations.Close()
	r.Corpus.Close()
	return r.backend.Close()
}

// OpenRepositories opens a backend at filePath and constructs all
// repositories over it. Caller must Close when done.
func OpenRepositories(filePath string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	userRepo, err := NewUserRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	sessionRepo, err := NewSessionRepository(backend)
	if err != nil {
		userRepo.Close()
		backend.Close()
		return nil, err
	}
	historyRepo, err := NewHistoryRepository(backend)
	if err != nil {
		sessionRepo.Close()
		userRepo.Close()
		backend.Close()
		return nil, err
	}
	citationRepo, err := NewCitationRepository(backend)
	if err != nil {
		historyRepo.Close()
		sessionRepo.Close()
		userRepo.Close()
		backend.Close()
		return nil, err
	}
	corpusRepo, err := NewCorpusRepository(backend)
	if err != nil {
		citationRepo.Close()
		historyRepo.Close()
		sessionRepo.Close()
		userRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Corpus:    corpusRepo,
		Users:     userRepo,
		Sessions:  sessionRepo,
		History:   historyRepo,
		Citations: citationRepo,
		backend:   backend,
	}, nil
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must Close when done.
func NewMemoryRepositories() (*Repositories, error) {
	return OpenRepositories("", true)
}
