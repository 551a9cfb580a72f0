package service

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo?id_token="

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config

	// 可注入的 HTTP 客户端，便于测试替换
	HTTPClient *http.Client
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		Cfg:        cfg,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterAdmin 创建管理员账号（仅管理员入口调用）
func (s *AuthService) RegisterAdmin(user *model.User) error {
	_, err := s.UserRepo.FindByUsername(user.Username)
	if err == nil {
		return util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	user.Role = model.Admin
	return s.UserRepo.Create(user)
}

// AdminLogin 管理员用户名+密码登录
func (s *AuthService) AdminLogin(username, password string) (string, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}
	if user.Role != model.Admin || user.Disabled {
		return "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	_ = s.UserRepo.UpdateLastLogin(user.ID)
	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// verifyGoogleIDToken 通过 Google tokeninfo 端点校验 ID Token
func (s *AuthService) verifyGoogleIDToken(idToken string) (*googleTokenInfo, error) {
	if s.Cfg.Google.ClientID == "" {
		return nil, errors.New("google sign-in is not configured")
	}

	resp, err := s.HTTPClient.Get(googleTokenInfoURL + idToken)
	if err != nil {
		return nil, fmt.Errorf("verify google token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, util.ErrInvalidGoogleToken
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	// aud 必须匹配本平台的 client_id，防止其他应用的 token 被重放
	if info.Aud != s.Cfg.Google.ClientID {
		return nil, util.ErrInvalidGoogleToken
	}
	if info.Email == "" {
		return nil, util.ErrInvalidGoogleToken
	}

	return &info, nil
}

// GoogleLogin 学生 Google 登录，首次登录自动建档
func (s *AuthService) GoogleLogin(idToken string) (string, *model.User, error) {
	info, err := s.verifyGoogleIDToken(idToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.UserRepo.FindByGoogleID(info.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 同邮箱的历史账号优先绑定，避免重复建档
		user, err = s.UserRepo.FindByEmail(info.Email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = &model.User{
				Name:     info.Name,
				Email:    info.Email,
				GoogleID: info.Sub,
				Avatar:   info.Picture,
				Role:     model.Student,
			}
			if err := s.UserRepo.Create(user); err != nil {
				return "", nil, err
			}
		} else if err != nil {
			return "", nil, err
		} else {
			user.GoogleID = info.Sub
			if user.Avatar == "" {
				user.Avatar = info.Picture
			}
			if err := s.UserRepo.Update(user); err != nil {
				return "", nil, err
			}
		}
	} else if err != nil {
		return "", nil, err
	}

	if user.Disabled {
		return "", nil, util.ErrInvalidCredentials
	}

	_ = s.UserRepo.UpdateLastLogin(user.ID)

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
