package main

import (
	"flag"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yashgajera132/blockchain-voting-system/app"
	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/logging"
)

func initFlags() {
	flag.String(config.FlagConfigPath, "", "config file path")
	flag.String(config.FlagConfigPrivateKey, "", "ledger signer private key")
	flag.String(config.FlagConfigDbPass, "", "db password")

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		panic(err)
	}
}

func printUsage() {
	fmt.Print("usage: ./blockchain-voting-system --config-path configFile\n")
}

func main() {
	initFlags()
	configFilePath := viper.GetString(config.FlagConfigPath)
	if configFilePath == "" {
		printUsage()
		return
	}
	cfg := config.ParseConfigFromFile(configFilePath)

	logging.InitLogger(&cfg.LogConfig)

	app.NewApp(cfg).Start()
}
