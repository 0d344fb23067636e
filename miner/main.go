// The MIT License (MIT)
//
// # Copyright (c) 2025 powmine
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/powmine/minerd/mining"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		// Enable timestamps + file:line to simplify debugging self-built binaries.
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "minerd"
	myApp.Usage = "proof-of-work mining coordinator (solo/devnet)"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringSliceFlag{
			Name:  "mining-pubkey,k",
			Usage: `mining key config "share,m:key1,key2,...". Repeat for multiple entries; omit to keep mining off`,
		},
		cli.BoolFlag{
			Name:  "mine",
			Usage: "enable the mining loop after key setup",
		},
		cli.IntFlag{
			Name:  "interval",
			Value: 10,
			Usage: "seconds between devnet candidates",
		},
		cli.Uint64Flag{
			Name:  "difficulty",
			Value: 64,
			Usage: "devnet difficulty target carried in each candidate",
		},
		cli.IntFlag{
			Name:  "statsinterval",
			Value: 30,
			Usage: "seconds between mining stats summaries",
		},
		cli.StringFlag{
			Name:  "statslog",
			Value: "",
			Usage: "collect mining stats to a csv file, aware of timeformat in golang, like: ./stats-20060102.log",
		},
		cli.IntFlag{
			Name:  "statsperiod",
			Value: 60,
			Usage: "stats collect period, in seconds",
		},
		cli.BoolFlag{
			Name:  "pprof",
			Usage: "start profiling server on :6060",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "specify a log file to output, default goes to stderr",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "to suppress the per-poke messages",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "", // when set, the JSON file must exist on disk
			Usage: "config from json file, which will override the command from shell",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		config := Config{}
		config.MiningKey = c.StringSlice("mining-pubkey")
		config.Mine = c.Bool("mine")
		config.Interval = c.Int("interval")
		config.Difficulty = c.Uint64("difficulty")
		config.StatsInterval = c.Int("statsinterval")
		config.StatsLog = c.String("statslog")
		config.StatsPeriod = c.Int("statsperiod")
		config.Pprof = c.Bool("pprof")
		config.Log = c.String("log")
		config.Quiet = c.Bool("quiet")

		if c.String("c") != "" {
			// Only JSON configuration files are supported at the moment.
			err := parseJSONConfig(&config, c.String("c"))
			checkError(err)
		}

		if config.Interval <= 0 {
			log.Printf("interval %d is not positive, falling back to 10", config.Interval)
			config.Interval = 10
		}
		if config.StatsInterval <= 0 {
			log.Printf("statsinterval %d is not positive, falling back to 30", config.StatsInterval)
			config.StatsInterval = 30
		}
		if config.StatsPeriod <= 0 {
			log.Printf("statsperiod %d is not positive, falling back to 60", config.StatsPeriod)
			config.StatsPeriod = 60
		}

		// Redirect logs when the user supplied a dedicated log file.
		if config.Log != "" {
			f, err := os.OpenFile(config.Log, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			checkError(err)
			defer f.Close()
			log.SetOutput(f)
		}

		log.Println("version:", VERSION)
		log.Println("mining keys:", len(config.MiningKey))
		log.Println("mine:", config.Mine)
		log.Println("interval:", config.Interval)
		log.Println("difficulty:", config.Difficulty)
		log.Println("statsinterval:", config.StatsInterval)
		log.Println("statslog:", config.StatsLog)
		log.Println("statsperiod:", config.StatsPeriod)
		log.Println("pprof:", config.Pprof)
		log.Println("quiet:", config.Quiet)

		// Configuration parse errors are fatal to startup.
		configs, err := mining.ParseMiningKeyConfigs(config.MiningKey)
		checkError(err)

		// Start the pprof server if the feature is enabled.
		if config.Pprof {
			go http.ListenAndServe(":6060", nil)
		}

		initComplete := make(chan struct{})
		go func() {
			<-initComplete
			log.Println("mining driver initialized")
		}()

		driver := mining.CreateMiningDriver(mining.DriverConfig{
			Configs:       configs,
			Mine:          config.Mine,
			InitComplete:  initComplete,
			StatsInterval: time.Duration(config.StatsInterval) * time.Second,
			StatsLog:      config.StatsLog,
			StatsPeriod:   config.StatsPeriod,
		})

		return driver(newLocalNode(&config))
	}
	checkError(myApp.Run(os.Args))
}

func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(-1)
	}
}
