package common

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/clock"
	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/database/mongoclient"
	"github.com/lovawin/sosh-test-sub004/base/database/redisclient"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/custody"
	"github.com/lovawin/sosh-test-sub004/domain/marketconfig"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
	"github.com/lovawin/sosh-test-sub004/service/cache"
	"github.com/lovawin/sosh-test-sub004/service/cache/provider"
	"github.com/lovawin/sosh-test-sub004/service/cache/provider/compound"
	"github.com/lovawin/sosh-test-sub004/service/cache/provider/primitive"
	redisProvider "github.com/lovawin/sosh-test-sub004/service/cache/provider/redis"
	"github.com/lovawin/sosh-test-sub004/service/chain"
	"github.com/lovawin/sosh-test-sub004/service/chain/contract"
	"github.com/lovawin/sosh-test-sub004/service/query"
	"github.com/lovawin/sosh-test-sub004/service/redis"
	custody_repository "github.com/lovawin/sosh-test-sub004/stores/custody/repository"
	custody_usecase "github.com/lovawin/sosh-test-sub004/stores/custody/usecase"
	marketconfig_repository "github.com/lovawin/sosh-test-sub004/stores/marketconfig/repository"
	sale_repository "github.com/lovawin/sosh-test-sub004/stores/sale/repository"
)

// LoadConfig reads the yaml named by --config. Env vars override keys, with
// dots replaced by underscores, e.g. MONGO_URI.
func LoadConfig(appName string) {
	path := pflag.String("config", "infra/configs/config.yaml", "config file path")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("app_name", appName)
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if lvl := viper.GetString("log.level"); lvl != "" {
		if err := log.SetLevel(lvl); err != nil {
			log.Log().WithFields(log.Fields{"level": lvl, "err": err}).Warn("invalid log level")
		}
	}
	if viper.GetBool("debug") {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

// Stores holds the backing stores. Mongo and Redis are nil when not configured,
// the process then keeps sales in memory and caches in process.
type Stores struct {
	Mongo *mongoclient.Client
	Query query.Mongo
	Redis redis.Service
}

func MustConnectStores(context ctx.Ctx) *Stores {
	st := &Stores{}
	if uri := viper.GetString("mongo.uri"); uri != "" {
		context.Info("init mongo")
		st.Mongo = mongoclient.MustConnectMongoClient(mongoclient.Config{
			URI:                uri,
			AuthDBName:         viper.GetString("mongo.authDBName"),
			DBName:             viper.GetString("mongo.dbName"),
			SSL:                viper.GetBool("mongo.enableSSL"),
			SetSafe:            true,
			PoolSizeMultiplier: viper.GetFloat64("mongo.poolMultiplier"),
		})
		st.Query = query.New(st.Mongo, viper.GetBool("mongo.checkIndex"))
	} else {
		context.Warn("mongo.uri not set, sales are kept in memory")
	}

	if uri := viper.GetString("redis.uri"); uri != "" {
		context.Info("init redis")
		name := viper.GetString("redis.name")
		pool := redisclient.MustConnectRedis(redisclient.Config{
			URI:            uri,
			Password:       viper.GetString("redis.password"),
			PoolMultiplier: viper.GetFloat64("redis.poolMultiplier"),
			Retry:          true,
		})
		st.Redis = redis.New(name, metrics.New(name), pool)
	}
	return st
}

func (st *Stores) Close(context ctx.Ctx) {
	if st.Mongo == nil {
		return
	}
	if err := st.Mongo.Disconnect(context); err != nil {
		context.WithField("err", err).Warn("mongo disconnect failed")
	}
}

// SaleRepo returns the mongo repo, ensuring its indexes, or the memory repo.
func (st *Stores) SaleRepo(context ctx.Ctx) (sale.Repo, error) {
	if st.Query == nil {
		return sale_repository.NewMemorySaleRepo(), nil
	}
	if err := sale_repository.EnsureIndexes(context, st.Query); err != nil {
		context.WithField("err", err).Error("sale_repository.EnsureIndexes failed")
		return nil, err
	}
	return sale_repository.NewSaleRepo(st.Query), nil
}

func (st *Stores) MarketConfigRepo() marketconfig.Repo {
	if st.Query == nil {
		return marketconfig_repository.NewMemoryConfigRepo()
	}
	return marketconfig_repository.NewConfigRepo(st.Query)
}

// CacheProvider layers an in-process cache over redis when redis is configured.
func (st *Stores) CacheProvider(name string, sizeMb int) provider.Provider {
	local := primitive.NewPrimitive(name, sizeMb)
	if st.Redis == nil {
		return local
	}
	return compound.NewCompound([]provider.Provider{local, redisProvider.NewRedis(st.Redis)})
}

// Ledger dials the chain the collection lives on.
func Ledger(context ctx.Ctx) (custody.LedgerClient, error) {
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		ChainId:  domain.ChainId(viper.GetInt32("chain.chainId")),
		RpcUrl:   viper.GetString("chain.rpcUrl"),
		Throttle: viper.GetInt("chain.throttle"),
	})
	if err != nil {
		return nil, err
	}
	nftContract := domain.Address(viper.GetString("chain.nftContract"))
	erc721 := contract.NewErc721(chainService)
	if ok, err := erc721.Supports721Interface(context, nftContract); err != nil {
		context.WithFields(log.Fields{"contract": nftContract, "err": err}).Warn("erc721.Supports721Interface failed")
	} else if !ok {
		return nil, xerrors.Errorf("%s is not an erc721 contract: %w", nftContract, domain.ErrInvalidConfig)
	}
	return custody_repository.NewLedgerClient(&custody_repository.LedgerCfg{
		NftContract: nftContract,
		Erc721:      erc721,
		Chain:       chainService,
	}), nil
}

// Clock reads block time unless chain.clock is "system".
func Clock(ledger custody.LedgerClient) domain.Clock {
	if viper.GetString("chain.clock") == "system" {
		return clock.NewSystemClock()
	}
	return clock.NewChainClock(ledger, viper.GetDuration("chain.ledgerTimeout"))
}

func Oracle(ledger custody.LedgerClient, st *Stores) custody.Oracle {
	return custody_usecase.New(&custody_usecase.OracleUseCaseCfg{
		Ledger:      ledger,
		Marketplace: domain.Address(viper.GetString("chain.marketplace")),
		Timeout:     viper.GetDuration("chain.ledgerTimeout"),
		Cache: cache.New(cache.ServiceConfig{
			Ttl:   viper.GetDuration("custody.cacheTtl"),
			Pfx:   "custody",
			Cache: st.CacheProvider("custody", viper.GetInt("custody.cacheSizeMb")),
		}),
		MaxStaleness: viper.GetDuration("custody.maxStaleness"),
	})
}

// MarketDefaults are seeded into the config store on first start.
func MarketDefaults() (marketconfig.FeeConfig, marketconfig.TimeConfig) {
	fee := marketconfig.FeeConfig{
		PrimaryFeeBps:           viper.GetUint32("market.fees.primaryFeeBps"),
		SecondaryFeeBps:         viper.GetUint32("market.fees.secondaryFeeBps"),
		UppercapPrimaryFeeBps:   viper.GetUint32("market.fees.uppercapPrimaryFeeBps"),
		UppercapSecondaryFeeBps: viper.GetUint32("market.fees.uppercapSecondaryFeeBps"),
	}
	times := marketconfig.TimeConfig{
		MaxSaleDuration:       viper.GetDuration("market.times.maxSaleDuration"),
		MinSaleDuration:       viper.GetDuration("market.times.minSaleDuration"),
		MinTimeDifference:     viper.GetDuration("market.times.minTimeDifference"),
		ExtensionDuration:     viper.GetDuration("market.times.extensionDuration"),
		MinSaleUpdateDuration: viper.GetDuration("market.times.minSaleUpdateDuration"),
		MaxTotalExtension:     viper.GetDuration("market.times.maxTotalExtension"),
	}
	return fee, times
}
