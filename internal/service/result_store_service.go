package service

import (
	"context"
	"fmt"

	"github.com/dostonbek/testplatform/internal/model"
	"github.com/dostonbek/testplatform/internal/repository"
	"github.com/rs/zerolog/log"
)

// ResultStoreService persists completed quiz results and holds the trivial
// session concept (current user). Persistence is strictly remote-first: the
// backend wins when reachable, otherwise the local fallback list serves, and
// no merging of the two ever happens.
type ResultStoreService interface {
	// SaveResult never fails from the caller's perspective: a remote failure
	// is absorbed into a local append and only logged.
	SaveResult(ctx context.Context, result *model.QuizResult)
	FetchAllResults(ctx context.Context) ([]model.QuizResult, error)

	Login(email, fullName string) (*model.User, error)
	Logout() error
	CurrentUser() (*model.User, error)
}

type resultStoreService struct {
	remote repository.RemoteResultRepository
	local  repository.ResultRepository
	users  repository.UserRepository
}

func NewResultStoreService(
	remote repository.RemoteResultRepository,
	local repository.ResultRepository,
	users repository.UserRepository,
) ResultStoreService {
	return &resultStoreService{remote: remote, local: local, users: users}
}

func (s *resultStoreService) SaveResult(ctx context.Context, result *model.QuizResult) {
	if err := s.remote.Save(ctx, result); err != nil {
		log.Warn().Err(err).Msg("Backend save failed, appending to local fallback")
		if localErr := s.local.Append(result); localErr != nil {
			log.Error().Err(localErr).Msg("Local fallback append failed, result lost")
		}
		return
	}
	log.Info().Int("score", result.Score).Str("category", result.Category).Msg("Result saved to backend")
}

func (s *resultStoreService) FetchAllResults(ctx context.Context) ([]model.QuizResult, error) {
	results, err := s.remote.FetchAll(ctx)
	if err == nil {
		return results, nil
	}
	log.Warn().Err(err).Msg("Backend fetch failed, reading local fallback")

	results, localErr := s.local.FindAll()
	if localErr != nil {
		return nil, fmt.Errorf("error fetching results history: %w", localErr)
	}
	return results, nil
}

// Login fabricates the user locally. No server round trip is required; the
// record is purely a display and attribution token.
func (s *resultStoreService) Login(email, fullName string) (*model.User, error) {
	user := &model.User{FullName: fullName, Email: email, IsLoggedIn: true}
	if err := s.users.SaveCurrent(user); err != nil {
		return nil, fmt.Errorf("error persisting session user: %w", err)
	}
	log.Info().Str("email", email).Msg("User logged in")
	return user, nil
}

func (s *resultStoreService) Logout() error {
	return s.users.Clear()
}

func (s *resultStoreService) CurrentUser() (*model.User, error) {
	return s.users.Current()
}
