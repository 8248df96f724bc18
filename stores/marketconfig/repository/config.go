package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/marketconfig"
	"github.com/lovawin/sosh-test-sub004/service/query"
)

const (
	kindFees  = "fees"
	kindTimes = "times"
)

type feeConfigDoc struct {
	Kind                   string `bson:"_id"`
	marketconfig.FeeConfig `bson:",inline"`
}

type timeConfigDoc struct {
	Kind                    string `bson:"_id"`
	marketconfig.TimeConfig `bson:",inline"`
}

type impl struct {
	query query.Mongo
}

func NewConfigRepo(q query.Mongo) marketconfig.Repo {
	return &impl{query: q}
}

func (im *impl) FindFeeConfig(ctx ctx.Ctx) (*marketconfig.FeeConfig, error) {
	doc := feeConfigDoc{}
	if err := im.find(ctx, kindFees, &doc); err != nil {
		return nil, err
	}
	return &doc.FeeConfig, nil
}

func (im *impl) FindTimeConfig(ctx ctx.Ctx) (*marketconfig.TimeConfig, error) {
	doc := timeConfigDoc{}
	if err := im.find(ctx, kindTimes, &doc); err != nil {
		return nil, err
	}
	return &doc.TimeConfig, nil
}

func (im *impl) SaveFeeConfig(ctx ctx.Ctx, cfg *marketconfig.FeeConfig, prevVersion uint64) error {
	return im.save(ctx, kindFees, &feeConfigDoc{Kind: kindFees, FeeConfig: *cfg}, prevVersion)
}

func (im *impl) SaveTimeConfig(ctx ctx.Ctx, cfg *marketconfig.TimeConfig, prevVersion uint64) error {
	return im.save(ctx, kindTimes, &timeConfigDoc{Kind: kindTimes, TimeConfig: *cfg}, prevVersion)
}

func (im *impl) find(ctx ctx.Ctx, kind string, doc interface{}) error {
	if err := im.query.FindOne(ctx, domain.TableMarketConfigs, bson.M{"_id": kind}, doc); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"kind": kind,
			"err":  err,
		}).Error("query.FindOne failed")
		return err
	}
	return nil
}

// save inserts the first version, then replaces only the document still holding prevVersion.
func (im *impl) save(ctx ctx.Ctx, kind string, doc interface{}, prevVersion uint64) error {
	if prevVersion == 0 {
		err := im.query.Insert(ctx, domain.TableMarketConfigs, doc)
		if err == query.ErrDuplicateKey {
			return domain.ErrVersionConflict
		} else if err != nil {
			ctx.WithFields(log.Fields{
				"kind": kind,
				"err":  err,
			}).Error("query.Insert failed")
			return err
		}
		return nil
	}

	selector := bson.M{"_id": kind, "version": prevVersion}
	if err := im.query.Replace(ctx, domain.TableMarketConfigs, selector, doc); err == query.ErrNotFound {
		return domain.ErrVersionConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"kind":        kind,
			"prevVersion": prevVersion,
			"err":         err,
		}).Error("query.Replace failed")
		return err
	}
	return nil
}
