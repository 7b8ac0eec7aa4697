package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/models"
)

const defaultWeChatAPI = "https://qyapi.weixin.qq.com"

// WeChatChannel messages one WeChat Work app. Each send decrypts the stored
// app secret, exchanges it for a short-lived access token with one GET, then
// POSTs a text message. Either call failing fails only this endpoint.
type WeChatChannel struct {
	cfg     config.WeChatTarget
	aesKey  string
	client  *http.Client
	baseURL string // overridden in tests
}

// NewWeChat creates a WeChatChannel for one configured app.
func NewWeChat(cfg config.WeChatTarget, aesKey string, client *http.Client) *WeChatChannel {
	return &WeChatChannel{cfg: cfg, aesKey: aesKey, client: client, baseURL: defaultWeChatAPI}
}

func (c *WeChatChannel) Name() string       { return "wechat" }
func (c *WeChatChannel) Endpoint() string   { return c.cfg.CorpID }
func (c *WeChatChannel) IsConfigured() bool { return c.cfg.CorpID != "" && c.cfg.AgentID != "" }

type wechatTokenResponse struct {
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
	AccessToken string `json:"access_token"`
}

type wechatSendResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (c *WeChatChannel) Send(ctx context.Context, batch Batch) models.SendOutcome {
	out := models.SendOutcome{Channel: c.Name(), Endpoint: c.Endpoint()}

	if c.cfg.Secret == "" {
		out.Detail = "wechat entry has no encrypted secret"
		return out
	}
	secret, err := DecryptSecret(c.cfg.Secret, []byte(c.aesKey))
	if err != nil {
		out.Detail = err.Error()
		return out
	}

	token, err := c.fetchToken(ctx, secret)
	if err != nil {
		out.Detail = err.Error()
		return out
	}

	b, err := json.Marshal(map[string]any{
		"touser":  c.cfg.ToUser,
		"msgtype": "text",
		"agentid": c.cfg.AgentID,
		"text":    map[string]string{"content": batch.Title + "\n" + batch.Content},
		"safe":    0,
	})
	if err != nil {
		out.Detail = err.Error()
		return out
	}

	sendURL := fmt.Sprintf("%s/cgi-bin/message/send?access_token=%s", c.baseURL, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(b))
	if err != nil {
		out.Detail = err.Error()
		return out
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		out.Detail = fmt.Sprintf("message send: %v", err)
		return out
	}
	defer resp.Body.Close()

	// Unlike the other channels, the API's errcode decides the outcome.
	var sr wechatSendResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&sr); err != nil {
		out.Detail = fmt.Sprintf("decoding send response: %v", err)
		return out
	}
	out.Detail = fmt.Sprintf("errcode %d: %s", sr.ErrCode, sr.ErrMsg)
	out.OK = sr.ErrCode == 0
	return out
}

// fetchToken trades the decrypted app secret for an access token.
func (c *WeChatChannel) fetchToken(ctx context.Context, secret string) (string, error) {
	tokenURL := fmt.Sprintf("%s/cgi-bin/gettoken?corpid=%s&corpsecret=%s",
		c.baseURL, url.QueryEscape(c.cfg.CorpID), url.QueryEscape(secret))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	var tr wechatTokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("gettoken errcode %d: %s", tr.ErrCode, tr.ErrMsg)
	}
	return tr.AccessToken, nil
}
