package main

import (
	"encoding/base64"
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/shifters-sim/shifters-go/entity/track"
	"github.com/shifters-sim/shifters-go/optimizer"
	"github.com/shifters-sim/shifters-go/race"
	"github.com/shifters-sim/shifters-go/utils/config"
	"github.com/sirupsen/logrus"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 运行模式：race跑一场完整比赛，optimize运行进化优化器
	mode = flag.String("mode", "race", "run mode (race or optimize)")
	// 收录进最终报告的最快圈数量
	topLaps = flag.Int("top-laps", 5, "number of fastest laps in the final report")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "shifters")
)

// buildTrack 按配置构造赛道
// 说明：优先使用内联坐标折线，其次GeoJSON文件，
// 两者都没有时退化为指定总长的椭圆赛道
func buildTrack(c *config.Config) *track.Track {
	circuit := c.Circuit
	coords := circuit.Coords
	if len(coords) == 0 && circuit.GeoJSON != "" {
		var err error
		coords, err = track.LoadGeoJSON(circuit.GeoJSON)
		if err != nil {
			log.Panicf("track load err: %v", err)
		}
	}
	if len(coords) == 0 {
		log.Infof("no circuit geometry, fall back to a %gm oval", circuit.OvalLength)
		return track.NewOval(circuit.Name, circuit.OvalLength, circuit.Laps)
	}
	trk, err := track.NewTrackFromCoords(circuit.Name, coords, circuit.Laps)
	if err != nil {
		log.Panicf("track build err: %v", err)
	}
	return trk
}

// runRace 跑一场完整比赛并打印最终报告
func runRace(c *config.Config, trk *track.Track) {
	r := race.New(trk, c.Vehicles, c.Control)
	r.RunToCompletion()

	report := r.GenerateReport(*topLaps)
	log.Infof("race result on %s (%d laps):", report.TrackName, report.Laps)
	for _, row := range report.Results {
		if row.DNF {
			log.Infof("  P%-2d %-16s DNF (%d laps)", row.Position, row.Name, len(row.Laps))
			continue
		}
		log.Infof("  P%-2d %-16s %8.1fs  +%6.1fs  best %6.1fs  pits %d",
			row.Position, row.Name, row.TotalTime, row.GapToWinner, row.BestLap, row.PitStops)
	}
	for i, fl := range report.FastestLaps {
		log.Infof("  fastest %d: %s lap %d %.1fs", i+1, fl.Name, fl.Lap, fl.Time)
	}
}

// runOptimize 以比赛为适应度预言机运行进化优化
// 说明：车辆列表的第一辆作为候选车模板，其余为固定对手阵容
func runOptimize(c *config.Config, trk *track.Track) {
	if len(c.Vehicles) == 0 {
		log.Panic("optimize mode requires at least one vehicle as the candidate template")
	}
	candidate := c.Vehicles[0]
	opponents := c.Vehicles[1:]
	eval := optimizer.NewRaceEvaluator(trk, c.Control, candidate, opponents)

	o := optimizer.New(c.Optimizer, c.Control.Seed)
	best := o.Run(eval)
	g := best.Genome
	log.Infof("best setup after %d generations (fitness %.2f):", o.Generation()+1, best.Fitness)
	log.Infof("  differential preload %.1f", g.DifferentialPreload)
	log.Infof("  engine braking       %.2f", g.EngineBraking)
	log.Infof("  brake balance        %.2f", g.BrakeBalance)
	log.Infof("  max speed            %.1f m/s", g.MaxSpeed)
	log.Infof("  acceleration         %.1f m/s2", g.Acceleration)
	log.Infof("  avg lap %.1fs, best lap %.1fs, finished P%d",
		best.Result.AvgLapTime, best.Result.BestLapTime, best.Result.Position)
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Panic("config file or config data must be specified")
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	log.Infof("%+v", *c)

	trk := buildTrack(c)
	switch *mode {
	case "race":
		runRace(c, trk)
	case "optimize":
		runOptimize(c, trk)
	default:
		log.Panicf("unknown mode %q (race or optimize)", *mode)
	}
}
