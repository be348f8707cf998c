package api

import (
	"net/http"
	"net/url"
)

// Credentials supplies the session credential and anti-forgery token for
// requests to the game service.
type Credentials interface {
	// Attach adds the session credential to req.
	Attach(req *http.Request)
	// Observe records credentials issued by the service in resp.
	Observe(resp *http.Response)
	// AntiForgeryToken returns the token sent with mutating requests, or ""
	// when none is known.
	AntiForgeryToken() string
}

// JarCredentials keeps the session and anti-forgery cookies in a cookie jar,
// the way a browser does.
type JarCredentials struct {
	jar         http.CookieJar
	base        *url.URL
	tokenCookie string
}

// NewJarCredentials returns credentials backed by jar. The anti-forgery token
// is read from the cookie named tokenCookie as visible to apiBase.
func NewJarCredentials(jar http.CookieJar, apiBase, tokenCookie string) (*JarCredentials, error) {
	u, err := url.Parse(apiBase + "/")
	if err != nil {
		return nil, err
	}
	return &JarCredentials{jar: jar, base: u, tokenCookie: tokenCookie}, nil
}

// Attach adds every jar cookie that applies to req.URL.
func (j *JarCredentials) Attach(req *http.Request) {
	for _, ck := range j.jar.Cookies(req.URL) {
		req.AddCookie(ck)
	}
}

// Observe stores the cookies set by resp.
func (j *JarCredentials) Observe(resp *http.Response) {
	if cookies := resp.Cookies(); len(cookies) > 0 {
		j.jar.SetCookies(resp.Request.URL, cookies)
	}
}

// AntiForgeryToken returns the value of the token cookie.
func (j *JarCredentials) AntiForgeryToken() string {
	for _, ck := range j.jar.Cookies(j.base) {
		if ck.Name == j.tokenCookie {
			return ck.Value
		}
	}
	return ""
}

// StaticCredentials sends a fixed session cookie and token and ignores
// anything the service issues.
type StaticCredentials struct {
	Session *http.Cookie
	Token   string
}

// Attach adds the session cookie when one is set.
func (s StaticCredentials) Attach(req *http.Request) {
	if s.Session != nil {
		req.AddCookie(s.Session)
	}
}

// Observe is a no-op.
func (StaticCredentials) Observe(*http.Response) {}

// AntiForgeryToken returns s.Token.
func (s StaticCredentials) AntiForgeryToken() string { return s.Token }
