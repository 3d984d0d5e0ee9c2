package middleware

import (
	"net/http"
	"regexp"

	"github.com/rs/cors"
)

// Local dev frontend origins.
var allowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// privateLAN matches 192.168.x.x, 10.x.x.x and 172.16-31.x.x origins so the
// frontend works from phones and other machines on the same network.
var privateLAN = regexp.MustCompile(
	`^http://(192\.168\.\d+\.\d+|10\.\d+\.\d+\.\d+|172\.(1[6-9]|2\d|3[0-1])\.\d+\.\d+)(:\d+)?$`,
)

// CORS builds the CORS handler for browser and LAN clients.
func CORS() func(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			for _, o := range allowedOrigins {
				if origin == o {
					return true
				}
			}
			return privateLAN.MatchString(origin)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           7200, // cache preflights for 2 hours
	})
	return c.Handler
}
