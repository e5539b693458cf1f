package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"conferent/config"
	"conferent/infras/jwt"
	jwtMocks "conferent/infras/jwt/mocks"
	"conferent/infras/otel/mocks"
	"conferent/internal/domains/auth/model/dto"
	"conferent/internal/domains/auth/service"
	userMocks "conferent/internal/domains/user/mocks"
	userModel "conferent/internal/domains/user/model"
	cacheMocks "conferent/shared/cache/mocks"
	"conferent/shared/constant"
	"conferent/shared/failure"
	gModel "conferent/shared/model"
	"conferent/shared/timezone"
)

// bcrypt hash of "password"
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func validUser() userModel.User {
	return userModel.User{
		ID:       7,
		Name:     "Test User",
		Email:    "test@example.com",
		Password: passwordHash,
		Role:     constant.RoleUser,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.ContextSystem,
			ModifiedBy: constant.ContextSystem,
		},
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockUserRepo, cfg, mockCache, mockOtel, mockJWT)

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantErr   bool
		wantKind  failure.Kind
	}{
		{
			name: "successful login",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				user := validUser()

				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(user, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(user.ID, user.Name, user.Email, user.Role).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)

				mockUserRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "user not found",
			req: dto.LoginRequest{
				Email:    "nonexistent@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindAuth,
		},
		{
			name: "wrong password",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "wrongpassword",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser(), nil)
			},
			wantErr:  true,
			wantKind: failure.KindAuth,
		},
		{
			name: "inactive user",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				inactiveUser := validUser()
				inactiveUser.Active = false

				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(inactiveUser, nil)
			},
			wantErr:  true,
			wantKind: failure.KindAuth,
		},
		{
			name: "token generation error",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				user := validUser()

				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(user, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(user.ID, user.Name, user.Email, user.Role).
					Return(nil, errors.New("signing failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr {
				require.Error(t, err)

				if tt.wantKind != "" {
					assert.True(t, failure.IsKind(err, tt.wantKind))
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, int64(7), res.UserID)
			assert.Equal(t, "test@example.com", res.UserEmail)
			assert.Equal(t, constant.RoleUser, res.UserRole)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockUserRepo, &config.Config{}, mockCache, mockOtel, mockJWT)

	req := dto.RegisterRequest{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "password",
	}

	t.Run("successful registration", func(t *testing.T) {
		mockUserRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)
		mockUserRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Register(context.Background(), req)

		require.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockUserRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Register(context.Background(), req)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindConflict))
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockUserRepo, &config.Config{}, mockCache, mockOtel, mockJWT)

	claims := &jwt.Claims{
		UserID:  7,
		Name:    "Test User",
		Email:   "test@example.com",
		Role:    constant.RoleUser,
		TokenID: "token-id-1",
	}

	t.Run("valid token", func(t *testing.T) {
		mockJWT.EXPECT().
			ValidateToken("good-token", jwt.AccessToken).
			Return(claims, nil)
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("not found"))

		res, err := svc.ValidateToken(context.Background(), "good-token")

		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, int64(7), res.UserID)
	})

	t.Run("invalid token reports valid false without an error", func(t *testing.T) {
		mockJWT.EXPECT().
			ValidateToken("bad-token", jwt.AccessToken).
			Return(nil, jwt.ErrInvalidToken)

		res, err := svc.ValidateToken(context.Background(), "bad-token")

		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("revoked token reports valid false", func(t *testing.T) {
		mockJWT.EXPECT().
			ValidateToken("revoked-token", jwt.AccessToken).
			Return(claims, nil)
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				revoked, _ := value.(*bool)
				*revoked = true

				return nil
			})

		res, err := svc.ValidateToken(context.Background(), "revoked-token")

		require.NoError(t, err)
		assert.False(t, res.Valid)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockUserRepo, &config.Config{}, mockCache, mockOtel, mockJWT)

	t.Run("revokes a valid token", func(t *testing.T) {
		mockJWT.EXPECT().
			ValidateToken("good-token", jwt.AccessToken).
			Return(&jwt.Claims{TokenID: "token-id-1"}, nil)
		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), true, gomock.Any()).
			Return(nil)

		res, err := svc.Logout(context.Background(), "good-token")

		require.NoError(t, err)
		assert.True(t, res.Success)
	})

	t.Run("succeeds for an already invalid token", func(t *testing.T) {
		mockJWT.EXPECT().
			ValidateToken("bad-token", jwt.AccessToken).
			Return(nil, jwt.ErrExpiredToken)

		res, err := svc.Logout(context.Background(), "bad-token")

		require.NoError(t, err)
		assert.True(t, res.Success)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockUserRepo, &config.Config{}, mockCache, mockOtel, mockJWT)

	t.Run("rotates the pair", func(t *testing.T) {
		mockJWT.EXPECT().
			RefreshTokens("refresh-token").
			Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})

		require.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
		assert.Equal(t, "new-refresh", res.RefreshToken)
	})

	t.Run("rejects an invalid refresh token", func(t *testing.T) {
		mockJWT.EXPECT().
			RefreshTokens("stale").
			Return(nil, jwt.ErrInvalidToken)

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "stale"})

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindAuth))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockUserRepo, &config.Config{}, mockCache, mockOtel, mockJWT)

	t.Run("changes the password", func(t *testing.T) {
		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(validUser(), nil)
		mockUserRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "password",
			NewPassword:     "new-password",
		}, 7)

		require.NoError(t, err)
	})

	t.Run("rejects a wrong current password", func(t *testing.T) {
		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(validUser(), nil)

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "new-password",
		}, 7)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})
}
