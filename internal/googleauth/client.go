package googleauth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Profile - профиль пользователя от провайдера идентичности
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Client обменивает authorization code на access token и
// забирает профиль. Конечные точки переопределяемы для тестов.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenURL     string
	userinfoURL  string
	http         *http.Client
}

func NewClient(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		tokenURL:     tokenEndpoint,
		userinfoURL:  userinfoEndpoint,
		http:         &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithEndpoints - вариант для тестов с подменой конечных точек
func NewClientWithEndpoints(clientID, clientSecret, redirectURI, tokenURL, userinfoURL string) *Client {
	c := NewClient(clientID, clientSecret, redirectURI)
	c.tokenURL = tokenURL
	c.userinfoURL = userinfoURL
	return c
}

// Exchange выполняет полный обмен: code -> token -> профиль
func (c *Client) Exchange(code string) (*Profile, error) {
	token, err := c.exchangeCode(code)
	if err != nil {
		return nil, err
	}
	return c.fetchProfile(token)
}

func (c *Client) exchangeCode(code string) (string, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"redirect_uri":  {c.redirectURI},
		"grant_type":    {"authorization_code"},
	}

	resp, err := c.http.Post(c.tokenURL, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token response contains no access_token")
	}
	return parsed.AccessToken, nil
}

func (c *Client) fetchProfile(accessToken string) (*Profile, error) {
	req, err := http.NewRequest(http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("userinfo response contains no email")
	}
	return &profile, nil
}
