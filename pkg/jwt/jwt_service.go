package jwt

import (
	"ShardStore/domain"
	"ShardStore/internal/utils"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type (
	JWTService interface {
		GenerateTokenAccount(accountID uint32, role string) string
		ValidateTokenAccount(token string) (*jwt.Token, error)
		GetAccountIDByToken(token string) (uint32, string, error)
	}

	jwtAccountClaim struct {
		AccountID uint32 `json:"account_id"`
		Role      string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func getSecretKey() string {
	utils.LoadConfig()
	secretKey := utils.GetConfig("JWT_SECRET")
	return secretKey
}

func NewJWTService() JWTService {
	return &jwtService{
		secretKey: getSecretKey(),
		issuer:    "SHARDSTORE",
	}
}

func (j *jwtService) GenerateTokenAccount(accountID uint32, role string) string {
	claims := jwtAccountClaim{
		accountID,
		role,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute * 120)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		log.Println(err)
	}
	return signed
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenAccount(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtAccountClaim{}, j.parseToken)
}

func (j *jwtService) GetAccountIDByToken(token string) (uint32, string, error) {
	t_Token, err := j.ValidateTokenAccount(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", domain.ErrTokenExpired
		}
		return 0, "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return 0, "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtAccountClaim)
	return claims.AccountID, claims.Role, nil
}
