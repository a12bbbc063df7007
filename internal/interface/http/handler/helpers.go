package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
)

func getUUID(c *gin.Context, key string) (uuid.UUID, error) {
	value, exists := c.Get(key)
	if !exists {
		return uuid.Nil, errors.New(key + " не найден в контексте")
	}

	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, errors.New("некорректный формат " + key)
	}

	return id, nil
}

// caller достаёт пользователя и фирму, положенные AuthMiddleware.
// При ошибке ответ уже отправлен.
func caller(c *gin.Context) (userID, firmID uuid.UUID, ok bool) {
	var err error
	if userID, err = getUUID(c, "user_id"); err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return uuid.Nil, uuid.Nil, false
	}
	if firmID, err = getUUID(c, "firm_id"); err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, firmID, true
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "некорректный идентификатор")
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "некорректный параметр "+key)
		return nil, false
	}
	return &id, true
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseBoolQuery(c *gin.Context, key string) bool {
	value, err := strconv.ParseBool(c.Query(key))
	return err == nil && value
}
