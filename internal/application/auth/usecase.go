package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/pkg/jwt"
	"github.com/jhoicas/warehouse-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase autenticación: login, alta de OWNER y resolución del actor de cada petición.
type AuthUseCase struct {
	users  repository.UserRepository
	tx     repository.TxRunner
	jwtCfg JWTConfig
	log    *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, tx repository.TxRunner, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{users: users, tx: tx, jwtCfg: jwtCfg, log: log.Named("auth")}
}

// Login verifica username (o email) y password, y emite el JWT.
// Usuario inexistente y password incorrecta dan el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	login := strings.TrimSpace(in.Login)
	user, err := uc.users.FindByUsername(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil && strings.Contains(login, "@") {
		if user, err = uc.users.FindByEmail(ctx, login); err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, domain.NewAuthenticationError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("user_id", user.ID).Msg("login con password incorrecta")
		return nil, domain.NewAuthenticationError("Invalid credentials")
	}
	if !user.IsActive {
		return nil, domain.NewAuthorizationError("Account is inactive")
	}
	return uc.issue(user)
}

// RegisterOwner crea un OWNER nuevo, ancla de su propio tenant, y devuelve su token.
func (uc *AuthUseCase) RegisterOwner(ctx context.Context, in dto.RegisterOwnerRequest) (*dto.LoginResponse, error) {
	owner, err := uc.CreateOwner(ctx, in)
	if err != nil {
		return nil, err
	}
	return uc.issue(owner)
}

// CreateOwner persiste el OWNER sin emitir token (lo usa también el CLI).
func (uc *AuthUseCase) CreateOwner(ctx context.Context, in dto.RegisterOwnerRequest) (*entity.User, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	hash, err := usecase.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	var owner *entity.User
	err = uc.tx.Run(ctx, func(repos repository.Set) error {
		username, email := strings.TrimSpace(in.Username), strings.TrimSpace(in.Email)
		if err := usecase.EnsureUserIdentityFree(ctx, repos.Users, username, email, ""); err != nil {
			return err
		}
		var err error
		owner, err = repos.Users.Create(ctx, &entity.User{
			Model:        entity.Model{ID: uuid.NewString()},
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Name:         strings.TrimSpace(in.Name),
			Role:         entity.RoleOwner,
			IsActive:     true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("owner_id", owner.ID).Msg("owner registrado")
	return owner, nil
}

// ResolveActor carga el usuario del token en cada petición: rol y estado siempre frescos de la BD.
func (uc *AuthUseCase) ResolveActor(ctx context.Context, userID string) (entity.Actor, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return entity.Actor{}, err
	}
	if user == nil {
		return entity.Actor{}, domain.NewAuthenticationError("User no longer exists")
	}
	return user.AsActor(), nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	ownerID := ""
	if user.OwnerID != nil {
		ownerID = *user.OwnerID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, ownerID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      dto.ToUserResponse(user),
	}, nil
}
