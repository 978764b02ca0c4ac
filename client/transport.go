package client

import (
	"encoding/json"
	"fmt"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
)

// WSDialer dials the server's /ws endpoint. The JWT travels in the query
// string because websocket handshakes cannot carry an Authorization header
// from a browser, and the server expects the same here.
type WSDialer struct {
	URL   string // ws://host:port/ws
	Token string
}

func (d WSDialer) Dial() (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(d.URL+"?token="+d.Token, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// HTTPAPI calls the durable notification endpoints over REST.
type HTTPAPI struct {
	BaseURL string // http://host:port
	Token   string
	Client  *fasthttp.Client
}

func (a *HTTPAPI) client() *fasthttp.Client {
	if a.Client != nil {
		return a.Client
	}
	return &fasthttp.Client{}
}

func (a *HTTPAPI) do(method, path string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(a.BaseURL + path)
	req.Header.Set("Authorization", "Bearer "+a.Token)

	if err := a.client().Do(req, resp); err != nil {
		return nil, err
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func (a *HTTPAPI) Unread() ([]Notification, error) {
	body, err := a.do(fasthttp.MethodGet, "/api/notifications?unread=true")
	if err != nil {
		return nil, err
	}
	var list []Notification
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode unread listing: %w", err)
	}
	return list, nil
}

func (a *HTTPAPI) MarkRead(id uint) error {
	_, err := a.do(fasthttp.MethodPut, fmt.Sprintf("/api/notifications/%d/read", id))
	return err
}
