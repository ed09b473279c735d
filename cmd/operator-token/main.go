// operator-token 为截止策略设置接口签发操作员 Token。
//
//	MROFL_AUTH_JWT_SECRET=... go run ./cmd/operator-token -operator alice
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/michaelos02/mroFormLimiter/config"
	"github.com/michaelos02/mroFormLimiter/pkg/jwt"
)

func main() {
	configPath := flag.String("config", os.Getenv("MROFL_CONFIG"), "配置文件路径")
	operatorID := flag.String("operator", "", "操作员 ID（默认取 auth.operator_id）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	id := *operatorID
	if id == "" {
		id = cfg.Auth.OperatorID
	}

	token, expiresAt, err := jwt.NewManager(&cfg.Auth).GenerateOperatorToken(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "签发 Token 失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "operator=%s expires_at=%s\n", id, expiresAt.Format(time.RFC3339))
}
