package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dutchpay/internal/auth"
	"github.com/mmynk/dutchpay/internal/middleware"
	"github.com/mmynk/dutchpay/internal/models"
	"github.com/mmynk/dutchpay/internal/storage"
)

// AuthService implements dutchpay.v1.AuthService.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Reader
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Reader, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// Register creates a new user account and signs them in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, auth.Profile{
		Email:          req.Msg.Email,
		DisplayName:    req.Msg.DisplayName,
		PaymentMethod:  models.PaymentMethod(req.Msg.PaymentMethod),
		PaymentAccount: req.Msg.PaymentAccount,
	}, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID)
	return connect.NewResponse(&AuthResponse{User: toUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&AuthResponse{User: toUser(user), Token: token}), nil
}

// GetCurrentUser returns the authenticated user's profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, _ *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	user, err := currentUser(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetCurrentUserResponse{User: toUser(user)}), nil
}

// currentUser loads the user set on ctx by the auth interceptor.
func currentUser(ctx context.Context, store storage.Reader) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	user, err := store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if user == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	return user, nil
}
