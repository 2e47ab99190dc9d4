package database

import (
	"fmt"
	"net/url"
	"strings"
)

// jdbcOnly are JDBC/Navicat query keys the go-sql-driver rejects.
var jdbcOnly = []string{"useUnicode", "zeroDateTimeBehavior"}

// normalizeMySQLDSN turns a URL-style (mysql:// or jdbc:mysql://) DSN into go-sql-driver
// syntax, user:pass@tcp(host:port)/db?params. Native DSNs pass through untouched.
// Non-empty userOverride / passOverride replace any credentials in the URL.
func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimPrefix(strings.TrimSpace(input), "jdbc:")
	if !strings.HasPrefix(in, "mysql://") {
		return strings.TrimSpace(input)
	}
	u, err := url.Parse(in)
	if err != nil {
		return in // let the driver report it
	}

	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	q := u.Query()
	if v := q.Get("user"); v != "" {
		user = v
	}
	if v := q.Get("password"); v != "" {
		pass = v
	}
	q.Del("user")
	q.Del("password")
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}

	if enc := q.Get("characterEncoding"); enc != "" && q.Get("charset") == "" {
		q.Set("charset", enc)
	}
	q.Del("characterEncoding")
	for _, k := range jdbcOnly {
		q.Del(k)
	}
	if ssl := strings.ToLower(q.Get("useSSL")); ssl != "" {
		q.Set("tls", tlsMode(ssl))
		q.Del("useSSL")
	}
	if tz := q.Get("serverTimezone"); tz != "" {
		q.Set("loc", tz)
		q.Del("serverTimezone")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	if cred != "" {
		cred += "@"
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, u.Host, strings.TrimPrefix(u.Path, "/"))
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn
}

func tlsMode(useSSL string) string {
	switch useSSL {
	case "true", "1":
		return "true"
	case "skip-verify", "preferred":
		return useSSL
	}
	return "false"
}
