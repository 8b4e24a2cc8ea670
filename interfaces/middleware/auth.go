package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ytcurator/domain/dto"
	"ytcurator/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// Auth guards a route group with an HS256 bearer token signed with secretKey.
// An empty secretKey disables the check.
func Auth(secretKey string) gin.HandlerFunc {
	if secretKey == "" {
		logger.GetLogger().Info("API bearer auth disabled: no secret key configured")
		return func(ctx *gin.Context) { ctx.Next() }
	}

	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		raw := strings.TrimPrefix(authorization, "Bearer ")
		if authorization == "" || raw == authorization {
			unauthorized(ctx, "Unauthorized")
			return
		}

		claims := jwt.StandardClaims{}
		token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid {
			unauthorized(ctx, reason(err))
			return
		}
		ctx.Set("subject", claims.Subject)
		ctx.Next()
	}
}

func reason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			// Token is either expired or not active yet
			return "Timing is everything"
		}
	}
	return "Unauthorized"
}

func unauthorized(ctx *gin.Context, message string) {
	logger.GetLogger().WithField("path", ctx.Request.URL.Path).Warn("Rejected API request: " + message)
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail(errors.New(message)))
}

// GenerateToken signs claims with HS256; used by the CLI to mint API tokens
func GenerateToken(claims jwt.MapClaims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
