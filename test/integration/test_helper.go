package integration

import (
	"os"
	"testing"
	"time"
)

// BaseURL 指向被测的 api 进程，默认跳过（只在起好服务后手动跑）
var BaseURL = os.Getenv("API_BASE_URL")

func TestMain(m *testing.M) {
	if BaseURL == "" {
		os.Exit(0)
	}

	// 等待服务启动
	time.Sleep(2 * time.Second)

	// 运行测试
	code := m.Run()

	// 清理测试数据
	cleanup()

	os.Exit(code)
}

func cleanup() {
	// 这里可以添加清理测试数据的代码
	// 例如：删除测试过程中创建的用户等
}

func requireServer(t *testing.T) {
	if BaseURL == "" {
		t.Skip("API_BASE_URL not set")
	}
}
