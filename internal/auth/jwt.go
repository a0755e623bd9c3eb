package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret     string
	jwtExpiry     = 24 * time.Hour
	signingMethod jwt.SigningMethod = jwt.SigningMethodHS256
)

func InitJWT() error {
	jwtSecret = os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	if hours := os.Getenv("JWT_EXPIRY_HOURS"); hours != "" {
		parsed, err := strconv.Atoi(hours)
		if err != nil {
			return fmt.Errorf("invalid JWT_EXPIRY_HOURS: %v", err)
		}
		jwtExpiry = time.Duration(parsed) * time.Hour
	}

	switch alg := os.Getenv("JWT_ALGORITHM"); alg {
	case "", "HS256":
		signingMethod = jwt.SigningMethodHS256
	case "HS384":
		signingMethod = jwt.SigningMethodHS384
	case "HS512":
		signingMethod = jwt.SigningMethodHS512
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM: %s", alg)
	}

	return nil
}

func GenerateJWT(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": now.Unix(),
		"exp": now.Add(jwtExpiry).Unix(),
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	return token.SignedString([]byte(jwtSecret))
}

// VerifyJWT validates the signature and expiry and returns the token subject.
func VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return "", fmt.Errorf("Invalid or expired token")
	}

	subject, err := token.Claims.GetSubject()

	if err != nil || subject == "" {
		return "", fmt.Errorf("Invalid token claims")
	}

	return subject, nil
}
