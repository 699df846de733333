package room

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Host capability tokens are signed claims on a room id. They are handed
// out when host is claimed and accepted on a later join to re-claim host
// after a reconnect. Displacement does not revoke older tokens: the last
// claim wins, same as an explicit host join.

func (s *service) generateHostToken(roomId string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"room_id": roomId,
		"role":    "host",
	})

	return token.SignedString([]byte(s.secret))
}

func (s *service) parseHostToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid host token")
	}

	roomId, _ := claims["room_id"].(string)
	role, _ := claims["role"].(string)
	if roomId == "" || role != "host" {
		return "", errors.New("invalid host token")
	}

	return roomId, nil
}
