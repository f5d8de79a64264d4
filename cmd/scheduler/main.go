package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/pkg/config"
	"stakecontrol/pkg/utils"
	"stakecontrol/schedule"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

func main() {
	// 日志输出到文件
	os.MkdirAll("logs", 0755)
	file, err := os.OpenFile("logs/scheduler.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	if err == nil {
		log.SetOutput(file)
	} else {
		log.Warn("无法打开日志文件，日志将输出到标准输出")
	}

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	config.InitDB()
	log.Infof("> 初始化程序完成")

	c := cron.New()

	// 收益先发，随后对碰，最后职级。任务内部有幂等保护，重叠无副作用。
	c.AddFunc("5 0 * * *", func() { runJob(schedule.RunDailyRewards, "每日收益") })
	c.AddFunc("30 0 * * *", func() { runJob(schedule.RunDailySynergy, "对碰结算") })
	c.AddFunc("0 1 * * *", func() { runJob(schedule.RunDailyRanks, "职级评定") })

	c.Start()
	log.Infof("> 定时任务已启动")

	// Block until terminated
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx := c.Stop()
	<-ctx.Done()
	log.Infof("> 定时任务已退出")
}

// runJob 统一处理幂等跳过与失败日志
func runJob(job func(string) (map[string]interface{}, error), label string) {
	day := utils.Today()
	if _, err := job(day); err != nil {
		if errors.Is(err, business.ErrJobAlreadyRan) || errors.Is(err, business.ErrJobRunning) {
			log.Infof("> %s任务跳过 (%s): %v", label, day, err)
			return
		}
		log.Errorf("> %s任务异常 (%s): %v", label, day, err)
	}
}
