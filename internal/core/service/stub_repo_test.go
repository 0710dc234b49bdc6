package service

import (
	"context"
	"errors"

	"github.com/mykare/user-registration/internal/core/domain"
)

// stubUserRepo keeps users in insertion order, mirroring the id ordering of
// the real stores.
type stubUserRepo struct {
	users       []*domain.User
	nextID      int64
	saveCalls   int
	deleteCalls int
	findErr     error
	saveErr     error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.saveCalls++
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateUser
		}
	}
	saved := cloneUser(user)
	saved.ID = r.nextID
	r.nextID++
	r.users = append(r.users, saved)
	return cloneUser(saved), nil
}

func (r *stubUserRepo) FindAllPaged(_ context.Context, page, size int) ([]*domain.User, error) {
	start := page * size
	if start >= len(r.users) {
		return nil, nil
	}
	end := min(start+size, len(r.users))
	out := make([]*domain.User, 0, end-start)
	for _, u := range r.users[start:end] {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, user *domain.User) error {
	r.deleteCalls++
	for i, u := range r.users {
		if u.ID == user.ID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// stubLimiter counts failures per email and locks at max.
type stubLimiter struct {
	failures map[string]int
	max      int
	resets   int
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{failures: make(map[string]int), max: max}
}

func (l *stubLimiter) IsLocked(_ context.Context, email string) (bool, error) {
	return l.failures[email] >= l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	l.resets++
	delete(l.failures, email)
	return nil
}
