package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
	"github.com/luchotourn/menusemanal-sub000/pkg/jwt"
)

// Límites del verificador de credenciales.
const (
	MaxLoginAttempts = 5
	LockoutWindow    = 15 * time.Minute
	MaxAvatarBytes   = 2 << 20
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y cuenta propia.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	familyRepo repository.FamilyRepository
	avatars    ports.AvatarStorage // nil = subida de archivos deshabilitada
	jwtCfg     JWTConfig
	now        func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, familyRepo repository.FamilyRepository, avatars ports.AvatarStorage, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, familyRepo: familyRepo, avatars: avatars, jwtCfg: jwtCfg, now: time.Now}
}

// SetClock reemplaza el reloj (tests de bloqueo).
func (uc *AuthUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// NormalizeEmail recorta y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	role, ok := entity.ParseRole(in.Role)
	if !ok || role == entity.RoleAdmin {
		return nil, domain.ErrInvalidInput
	}
	email := NormalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  string(hash),
		Name:          strings.TrimSpace(in.Name),
		Role:          role,
		Notifications: entity.DefaultNotificationPreferences(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// VerifyCredentials valida email y contraseña aplicando el bloqueo por intentos fallidos:
// 5 fallos bloquean la cuenta 15 minutos. Los errores de credenciales son *LoginError.
func (uc *AuthUseCase) VerifyCredentials(ctx context.Context, email, password string) (*entity.User, error) {
	now := uc.now()
	user, err := uc.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, invalidCredentials(0)
	}

	attempts := user.LoginAttempts
	if attempts >= MaxLoginAttempts {
		if user.LastLoginAttempt != nil {
			if elapsed := now.Sub(*user.LastLoginAttempt); elapsed < LockoutWindow {
				minutes := int(math.Ceil((LockoutWindow - elapsed).Minutes()))
				if minutes < 1 {
					minutes = 1
				}
				return nil, &LoginError{
					Code:             CodeAccountLocked,
					Message:          fmt.Sprintf("Cuenta bloqueada temporalmente. Intenta nuevamente en %d %s.", minutes, minutesWord(minutes)),
					MinutesRemaining: minutes,
					err:              domain.ErrAccountLocked,
				}
			}
		}
		// Ventana vencida: se reinicia el contador antes de evaluar la contraseña.
		if err := uc.userRepo.UpdateLoginAttempts(ctx, user.ID, 0, user.LastLoginAttempt); err != nil {
			return nil, fmt.Errorf("reiniciar intentos: %w", err)
		}
		attempts = 0
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		total, err := uc.userRepo.IncrementLoginAttempts(ctx, user.ID, now)
		if err != nil {
			return nil, fmt.Errorf("registrar intento fallido: %w", err)
		}
		remaining := MaxLoginAttempts - total
		if remaining > 0 {
			return nil, invalidCredentials(remaining)
		}
		return nil, &LoginError{
			Code:             CodeAccountLocked,
			Message:          fmt.Sprintf("Demasiados intentos fallidos. Cuenta bloqueada por %d %s.", int(LockoutWindow.Minutes()), minutesWord(int(LockoutWindow.Minutes()))),
			MinutesRemaining: int(LockoutWindow.Minutes()),
			err:              domain.ErrAccountLocked,
		}
	}

	if attempts != 0 || user.LastLoginAttempt != nil {
		if err := uc.userRepo.UpdateLoginAttempts(ctx, user.ID, 0, nil); err != nil {
			return nil, fmt.Errorf("reiniciar intentos: %w", err)
		}
	}
	user.LoginAttempts = 0
	user.LastLoginAttempt = nil
	user.PasswordHash = ""
	return user, nil
}

// Login verifica credenciales para abrir una sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.UserResponse, error) {
	user, err := uc.VerifyCredentials(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// IssueToken verifica credenciales y genera un JWT para clientes API.
func (uc *AuthUseCase) IssueToken(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := uc.VerifyCredentials(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.FamilyID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *ToUserResponse(user),
	}, nil
}

// ParseToken valida un Bearer token y devuelve el id de usuario.
func (uc *AuthUseCase) ParseToken(token string) (string, error) {
	id, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return "", err
	}
	return id.UserID, nil
}

// CurrentUser carga el usuario por id (rol y familia frescos). nil si ya no existe.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile actualiza nombre, email y preferencias.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, user *entity.User, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	current, err := uc.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		current.Name = name
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email != current.Email {
			other, err := uc.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != current.ID {
				return nil, domain.ErrEmailAlreadyExists
			}
			current.Email = email
		}
	}
	if p := in.NotificationPreferences; p != nil {
		if p.Email != nil {
			current.Notifications.Email = *p.Email
		}
		if p.MealComments != nil {
			current.Notifications.MealComments = *p.MealComments
		}
		if p.WeeklyMenu != nil {
			current.Notifications.WeeklyMenu = *p.WeeklyMenu
		}
	}
	current.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	return ToUserResponse(current), nil
}

// ChangePassword verifica la contraseña actual y guarda la nueva.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, user *entity.User, in dto.ChangePasswordRequest) error {
	current, err := uc.checkPassword(ctx, user.ID, in.CurrentPassword)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return uc.userRepo.UpdatePassword(ctx, current.ID, string(hash))
}

// SetAvatar guarda un avatar dado como URL http(s) o data URL de imagen (máx. 2 MB).
func (uc *AuthUseCase) SetAvatar(ctx context.Context, user *entity.User, avatar string) (*dto.UserResponse, error) {
	avatar = strings.TrimSpace(avatar)
	if err := validateAvatar(avatar); err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdateAvatar(ctx, user.ID, avatar); err != nil {
		return nil, err
	}
	return uc.profile(ctx, user.ID)
}

// UploadAvatar sube la imagen al almacenamiento de objetos y guarda su URL.
func (uc *AuthUseCase) UploadAvatar(ctx context.Context, user *entity.User, filename, contentType string, data []byte) (*dto.UserResponse, error) {
	if uc.avatars == nil {
		return nil, domain.ErrStorageDisabled
	}
	if len(data) == 0 || len(data) > MaxAvatarBytes || !strings.HasPrefix(contentType, "image/") {
		return nil, domain.ErrInvalidInput
	}
	key := fmt.Sprintf("avatars/%s/%s%s", user.ID, uuid.New().String(), strings.ToLower(path.Ext(filename)))
	location, err := uc.avatars.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("subir avatar: %w", err)
	}
	if err := uc.userRepo.UpdateAvatar(ctx, user.ID, location); err != nil {
		return nil, err
	}
	return uc.profile(ctx, user.ID)
}

// DeleteAccount re-verifica la contraseña y elimina la cuenta con sus datos.
// El creador de una familia con otros miembros no puede eliminarse (ErrFamilyOwner).
func (uc *AuthUseCase) DeleteAccount(ctx context.Context, user *entity.User, password string) error {
	current, err := uc.checkPassword(ctx, user.ID, password)
	if err != nil {
		return err
	}
	if current.FamilyID != "" {
		family, err := uc.familyRepo.GetByID(ctx, current.FamilyID)
		if err != nil {
			return err
		}
		if family != nil && family.IsOwner(current.ID) {
			members, err := uc.familyRepo.ListMembers(ctx, family.ID)
			if err != nil {
				return err
			}
			if len(members) > 1 {
				return domain.ErrFamilyOwner
			}
			if err := uc.familyRepo.Delete(ctx, family.ID); err != nil {
				return err
			}
		}
	}
	return uc.userRepo.Delete(ctx, current.ID)
}

func minutesWord(n int) string {
	if n == 1 {
		return "minuto"
	}
	return "minutos"
}

func (uc *AuthUseCase) checkPassword(ctx context.Context, userID, password string) (*entity.User, error) {
	current, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidPassword
	}
	return current, nil
}

func (uc *AuthUseCase) profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(u), nil
}

func validateAvatar(avatar string) error {
	if len(avatar) == 0 {
		return domain.ErrInvalidInput
	}
	if strings.HasPrefix(avatar, "data:") {
		meta, payload, ok := strings.Cut(strings.TrimPrefix(avatar, "data:"), ",")
		if !ok || !strings.HasPrefix(meta, "image/") || !strings.HasSuffix(meta, ";base64") {
			return domain.ErrInvalidInput
		}
		if base64.StdEncoding.DecodedLen(len(payload)) > MaxAvatarBytes {
			return domain.ErrInvalidInput
		}
		return nil
	}
	u, err := url.Parse(avatar)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// ToUserResponse mapea la entidad a su salida pública.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	var familyID *string
	if u.FamilyID != "" {
		f := u.FamilyID
		familyID = &f
	}
	return &dto.UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
		FamilyID: familyID,
		Avatar:   u.Avatar,
		NotificationPreferences: dto.NotificationPreferencesDTO{
			Email:        u.Notifications.Email,
			MealComments: u.Notifications.MealComments,
			WeeklyMenu:   u.Notifications.WeeklyMenu,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// IsLoginError indica si err es un rechazo de credenciales (y no un fallo interno).
func IsLoginError(err error) bool {
	var le *LoginError
	return errors.As(err, &le)
}
