// Package service contains the business logic layer of the portal.
//
// Handlers parse HTTP and translate errors; services enforce the account
// lifecycle and catalog rules; repositories talk to the database. Services
// depend on repository interfaces only, so tests swap in in-memory fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/campus-portal/internal/apperror"
	"github.com/sakif/campus-portal/internal/auth"
	"github.com/sakif/campus-portal/internal/model"
	"github.com/sakif/campus-portal/internal/repository"
)

// MinPasswordLength is the minimum accepted when a user picks a new password.
const MinPasswordLength = 4

// AccountService owns the account lifecycle: password and Google sign-in,
// the forced first-login steps (change password, complete profile), and the
// admin-side account management.
type AccountService struct {
	accounts       repository.AccountRepository
	tokens         *auth.TokenService
	passwords      *auth.PasswordService
	verifier       auth.IdentityVerifier
	allowedDomains []string
	logger         *slog.Logger
}

func NewAccountService(
	accounts repository.AccountRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	verifier auth.IdentityVerifier,
	allowedDomains []string,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts:       accounts,
		tokens:         tokens,
		passwords:      passwords,
		verifier:       verifier,
		allowedDomains: allowedDomains,
		logger:         logger,
	}
}

// AuthResult bundles the authenticated account with its session token so the
// handler can set the cookie and write the response in one step.
type AuthResult struct {
	Account *model.Account
	Token   string
}

// Login authenticates an email/password pair and issues a session token.
// Both an unknown email and a wrong password return the same
// ErrInvalidCredentials, so callers cannot probe which emails exist.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/account: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(account.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	return s.issueSession(account)
}

// GoogleLogin verifies a Google credential and signs the account in,
// creating it on first sight. Exactly one of credential (an ID token from
// Google Identity Services) or accessToken (an OAuth access token) must be
// set.
//
// New accounts get an unusable random password hash, so a Google-created
// account can never be signed into with a password, and are flagged
// must_complete_profile until the student fills in their details.
func (s *AccountService) GoogleLogin(ctx context.Context, credential, accessToken string) (*AuthResult, error) {
	var (
		identity *auth.Identity
		err      error
	)
	switch {
	case credential != "":
		identity, err = s.verifier.VerifyIDToken(ctx, credential)
	case accessToken != "":
		identity, err = s.verifier.VerifyAccessToken(ctx, accessToken)
	default:
		return nil, apperror.ValidationFailed("credential", "a Google credential or access token is required")
	}
	if err != nil {
		s.logger.Warn("google credential rejected", slog.String("error", err.Error()))
		return nil, apperror.UnverifiedIdentity()
	}

	if !identity.EmailVerified || identity.Email == "" {
		return nil, apperror.UnverifiedIdentity()
	}

	email := model.NormalizeEmail(identity.Email)
	if !s.domainAllowed(email) {
		return nil, apperror.DomainNotAllowed("please use your university email account")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		return s.issueSession(account)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/account: looking up %s: %w", email, err)
	}

	firstName, lastName := splitName(identity.Name)
	unusable, err := s.passwords.UnusableHash()
	if err != nil {
		return nil, fmt.Errorf("service/account: generating placeholder hash: %w", err)
	}

	account = &model.Account{
		Email:               email,
		PasswordHash:        unusable,
		Role:                model.RoleStudent,
		FirstName:           firstName,
		LastName:            lastName,
		MustCompleteProfile: true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("service/account: creating google account %s: %w", email, err)
	}

	s.logger.Info("account created via google sign-in",
		slog.Int64("accountID", account.ID),
		slog.String("email", account.Email),
	)

	return s.issueSession(account)
}

// ChangePassword verifies the current password and replaces it, clearing the
// must_change_password flag. The new password must be at least
// MinPasswordLength characters.
func (s *AccountService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) (*model.Account, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(newPassword) < MinPasswordLength {
		return nil, apperror.WeakPassword(MinPasswordLength)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/account: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(account.PasswordHash, currentPassword); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing new password: %w", err)
	}

	account.PasswordHash = hash
	account.MustChangePassword = false
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("service/account: saving new password for %d: %w", account.ID, err)
	}

	s.logger.Info("password changed", slog.Int64("accountID", account.ID))
	return account, nil
}

// CompleteProfileInput carries the details a student fills in on first
// Google sign-in. Password becomes the account's first usable password,
// replacing the random placeholder written at JIT creation.
type CompleteProfileInput struct {
	FirstName     string
	MiddleName    string
	LastName      string
	StudentNumber string
	College       string
	Major         string
	Phone         string
	Password      string
}

// CompleteProfile fills in the student details of a freshly created Google
// account, sets its password, and clears both first-login flags. A second
// call for the same account returns ErrAlreadyCompleted, so the one-time
// step cannot be replayed to overwrite a profile.
func (s *AccountService) CompleteProfile(ctx context.Context, accountID int64, in CompleteProfileInput) (*model.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.MustCompleteProfile {
		return nil, apperror.AlreadyCompleted("this profile has already been completed")
	}

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.StudentNumber = strings.TrimSpace(in.StudentNumber)
	if in.FirstName == "" {
		return nil, apperror.ValidationFailed("first_name", "first name is required")
	}
	if in.LastName == "" {
		return nil, apperror.ValidationFailed("last_name", "last name is required")
	}
	if in.StudentNumber == "" {
		return nil, apperror.ValidationFailed("student_number", "student number is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing profile password: %w", err)
	}
	account.PasswordHash = hash

	account.FirstName = in.FirstName
	account.MiddleName = strings.TrimSpace(in.MiddleName)
	account.LastName = in.LastName
	account.StudentNumber = in.StudentNumber
	account.College = strings.TrimSpace(in.College)
	account.Major = strings.TrimSpace(in.Major)
	account.Phone = strings.TrimSpace(in.Phone)
	account.MustCompleteProfile = false
	account.MustChangePassword = false

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("profile completed", slog.Int64("accountID", account.ID))
	return account, nil
}

// GetByID returns the account for the given ID. Used by the /api/auth/me
// handler after the middleware has validated the session.
func (s *AccountService) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// ListAccounts returns all accounts, newest first.
func (s *AccountService) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return s.accounts.List(ctx)
}

// CreateAccountInput is the admin-side "register a student" form.
type CreateAccountInput struct {
	Email         string
	FirstName     string
	MiddleName    string
	LastName      string
	StudentNumber string
	College       string
	Major         string
	Phone         string
	Role          model.Role
}

// CreateAccount registers an account on behalf of an administrator. The
// initial password is the student number, and must_change_password forces a
// reset on first login.
func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) (*model.Account, error) {
	email := model.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.StudentNumber = strings.TrimSpace(in.StudentNumber)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if in.FirstName == "" {
		return nil, apperror.ValidationFailed("first_name", "first name is required")
	}
	if in.LastName == "" {
		return nil, apperror.ValidationFailed("last_name", "last name is required")
	}
	if in.StudentNumber == "" {
		return nil, apperror.ValidationFailed("student_number", "student number is required")
	}

	hash, err := s.passwords.Hash(in.StudentNumber)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing initial password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = model.RoleStudent
	}

	account := &model.Account{
		Email:              email,
		PasswordHash:       hash,
		Role:               role,
		FirstName:          in.FirstName,
		MiddleName:         strings.TrimSpace(in.MiddleName),
		LastName:           in.LastName,
		StudentNumber:      in.StudentNumber,
		College:            strings.TrimSpace(in.College),
		Major:              strings.TrimSpace(in.Major),
		Phone:              strings.TrimSpace(in.Phone),
		MustChangePassword: true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created by admin",
		slog.Int64("accountID", account.ID),
		slog.String("email", account.Email),
	)
	return account, nil
}

// UpdateAccountInput is the admin-side edit form. It carries the same
// required fields as CreateAccountInput. Role, when set, replaces the
// account's role; this is the only path that promotes or demotes an
// account. NewPassword, when set, replaces the password and forces a
// change on next login.
type UpdateAccountInput struct {
	Email         string
	FirstName     string
	MiddleName    string
	LastName      string
	StudentNumber string
	College       string
	Major         string
	Phone         string
	Role          model.Role
	NewPassword   string
}

// UpdateAccount applies an admin edit to an existing account.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, in UpdateAccountInput) (*model.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := model.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.StudentNumber = strings.TrimSpace(in.StudentNumber)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if in.FirstName == "" {
		return nil, apperror.ValidationFailed("first_name", "first name is required")
	}
	if in.LastName == "" {
		return nil, apperror.ValidationFailed("last_name", "last name is required")
	}
	if in.StudentNumber == "" {
		return nil, apperror.ValidationFailed("student_number", "student number is required")
	}

	account.Email = email
	account.FirstName = in.FirstName
	account.MiddleName = strings.TrimSpace(in.MiddleName)
	account.LastName = in.LastName
	account.StudentNumber = in.StudentNumber
	account.College = strings.TrimSpace(in.College)
	account.Major = strings.TrimSpace(in.Major)
	account.Phone = strings.TrimSpace(in.Phone)
	if in.Role != "" {
		account.Role = in.Role
	}

	if in.NewPassword != "" {
		if len(in.NewPassword) < MinPasswordLength {
			return nil, apperror.WeakPassword(MinPasswordLength)
		}
		hash, err := s.passwords.Hash(in.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("service/account: hashing replacement password: %w", err)
		}
		account.PasswordHash = hash
		account.MustChangePassword = true
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account updated by admin", slog.Int64("accountID", account.ID))
	return account, nil
}

// DeleteAccount removes an account. Administrator accounts cannot be
// deleted, not even by other administrators.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account.Role == model.RoleAdmin {
		return apperror.Forbidden("administrator accounts cannot be deleted")
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("account deleted",
		slog.Int64("accountID", id),
		slog.String("email", account.Email),
	)
	return nil
}

func (s *AccountService) issueSession(account *model.Account) (*AuthResult, error) {
	token, err := s.tokens.Generate(account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("service/account: generating session token for %d: %w", account.ID, err)
	}
	return &AuthResult{Account: account, Token: token}, nil
}

// domainAllowed reports whether the email ends with one of the configured
// university domain suffixes. A suffix without a leading "@" or "." gets an
// "@" prepended, so "najah.edu" matches x@najah.edu but never
// x@evilnajah.edu.
func (s *AccountService) domainAllowed(email string) bool {
	for _, suffix := range s.allowedDomains {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" {
			continue
		}
		if suffix[0] != '@' && suffix[0] != '.' {
			suffix = "@" + suffix
		}
		if strings.HasSuffix(email, suffix) {
			return true
		}
	}
	return false
}

// splitName turns a Google display name into first/last parts. The first
// word becomes the first name, everything after it the last name.
func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
