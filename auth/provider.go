package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/logging"
)

const (
	RoleAdmin = "admin"
	RoleVoter = "voter"
)

// User is the identity attached to a request. Verified is the identity
// service's verdict and is never re-derived here.
type User struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Verified bool   `json:"isVerified"`
	Address  string `json:"walletAddress"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Provider interface {
	CurrentUser(ctx context.Context, token string) (*User, error)
}

type httpProvider struct {
	addr       string
	httpClient *http.Client
}

func NewHttpProvider(cfg *config.AuthConfig) Provider {
	return &httpProvider{
		addr: cfg.IdentityServiceAddr,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		},
	}
}

func (p *httpProvider) CurrentUser(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.addr+"/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logging.Logger.Errorf("identity service request failed, err=%s", err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var body struct {
		Success bool  `json:"success"`
		Data    *User `json:"data"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if !body.Success || body.Data == nil {
		return nil, fmt.Errorf("identity service rejected token")
	}
	return body.Data, nil
}
