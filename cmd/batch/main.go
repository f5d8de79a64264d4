package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/pkg/config"
	"stakecontrol/pkg/utils"
	"stakecontrol/schedule"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// 手动补跑批处理任务：
//
//	go run ./cmd/batch -job daily_rewards -date 2026-08-30
func main() {
	jobName := flag.String("job", "", "job name: daily_rewards | daily_synergy | daily_ranks")
	day := flag.String("date", utils.Today(), "settlement date, YYYY-MM-DD")
	flag.Parse()

	if *jobName == "" {
		fmt.Fprintln(os.Stderr, "usage: batch -job <name> [-date YYYY-MM-DD]")
		os.Exit(2)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	config.InitDB()
	log.Infof("> 初始化程序完成")

	result, err := schedule.RunJob(*jobName, *day)
	if err != nil {
		if errors.Is(err, business.ErrJobAlreadyRan) || errors.Is(err, business.ErrJobRunning) {
			log.Infof("> 任务 %s (%s) 跳过: %v", *jobName, *day, err)
			return
		}
		log.Fatalf("> 任务 %s (%s) 执行失败: %v", *jobName, *day, err)
	}

	log.Infof("> 任务 %s (%s) 执行完成: %v", *jobName, *day, result)
}
