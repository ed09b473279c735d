package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/michaelos02/mroFormLimiter/pkg/jwt"
	"github.com/michaelos02/mroFormLimiter/pkg/response"
)

// OperatorAuth 操作员认证中间件
// 从 Authorization: Bearer <token> 中提取并验证操作员 Token
func OperatorAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.Role != jwt.RoleOperator {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}

		c.Set("operator_id", claims.OperatorID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
