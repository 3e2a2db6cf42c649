package app

import (
	"fmt"

	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yashgajera132/blockchain-voting-system/auth"
	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/db/dao"
	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"github.com/yashgajera132/blockchain-voting-system/guard"
	"github.com/yashgajera132/blockchain-voting-system/keys"
	"github.com/yashgajera132/blockchain-voting-system/ledger"
	"github.com/yashgajera132/blockchain-voting-system/metrics"
	"github.com/yashgajera132/blockchain-voting-system/monitor"
	"github.com/yashgajera132/blockchain-voting-system/reconcile"
	"github.com/yashgajera132/blockchain-voting-system/server"
	"github.com/yashgajera132/blockchain-voting-system/wiper"
)

type App struct {
	ledgerClient  *ledger.Client
	eventMonitor  *monitor.Monitor
	httpServer    *server.Server
	metricService *metrics.MetricService
	dbWiper       *wiper.DBWiper
}

func NewApp(cfg *config.Config) *App {
	db := openDB(&cfg.DBConfig)

	model.InitElectionTable(db)
	model.InitCandidateTable(db)
	model.InitVoteTable(db)
	model.InitRosterTable(db)
	model.InitCheckpointTable(db)

	electionDao := dao.NewElectionDao(db)
	candidateDao := dao.NewCandidateDao(db)
	voteDao := dao.NewVoteDao(db)
	rosterDao := dao.NewRosterDao(db)
	checkpointDao := dao.NewCheckpointDao(db)
	daoManager := dao.NewDaoManager(electionDao, candidateDao, voteDao, rosterDao, checkpointDao)

	session := ledger.NewSession()
	ledgerClient, err := ledger.NewClient(&cfg.LedgerConfig, session)
	if err != nil {
		panic(fmt.Sprintf("create ledger client error, err=%s", err.Error()))
	}

	privateKey := viper.GetString(config.FlagConfigPrivateKey)
	if privateKey == "" {
		privateKey = cfg.LedgerConfig.PrivateKey
	}
	keyManager, err := keys.NewPrivateKeyManager(privateKey)
	if err != nil {
		panic(err)
	}
	if err := ledgerClient.Connect(keyManager); err != nil {
		panic(fmt.Sprintf("connect ledger session error, err=%s", err.Error()))
	}

	metricService := metrics.NewMetricService(cfg)

	guardDataHandler := guard.NewDataHandler(daoManager)
	voteGuard := guard.NewVoteGuard(guardDataHandler)

	reconcileDataHandler := reconcile.NewDataHandler(daoManager)
	reconcileService := reconcile.NewService(cfg, reconcileDataHandler, ledgerClient, voteGuard, metricService)

	monitorDataHandler := monitor.NewDataHandler(daoManager)
	eventMonitor := monitor.NewMonitor(cfg, ledgerClient, monitorDataHandler, metricService)

	authProvider := auth.NewHttpProvider(&cfg.AuthConfig)
	httpServer := server.NewServer(&cfg.ServerConfig, reconcileService, authProvider)

	dbWiper := wiper.NewDBWiper(cfg, daoManager)

	return &App{
		ledgerClient:  ledgerClient,
		eventMonitor:  eventMonitor,
		httpServer:    httpServer,
		metricService: metricService,
		dbWiper:       dbWiper,
	}
}

func (a *App) Start() {
	go a.eventMonitor.ListenEventLoop()
	go a.dbWiper.DBWipeLoop()
	go a.metricService.Start()
	if err := a.httpServer.Serve(); err != nil {
		panic(err)
	}
}

func openDB(cfg *config.DBConfig) *gorm.DB {
	password := viper.GetString(config.FlagConfigDbPass)
	if password == "" {
		password = cfg.Password
	}

	var dialector gorm.Dialector
	if cfg.Dialect == config.DBDialectSqlite3 {
		dialector = sqlite.Open(cfg.DBPath)
	} else {
		dbPath := fmt.Sprintf("%s:%s@%s", cfg.Username, password, cfg.DBPath)
		dialector = mysql.Open(dbPath)
	}

	gormConfig := &gorm.Config{TranslateError: true}
	if !cfg.DebugMode {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		panic(fmt.Sprintf("open db error, err=%s", err.Error()))
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	return db
}
