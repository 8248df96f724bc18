package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/database/mongoclient"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
	"github.com/lovawin/sosh-test-sub004/service/query"
)

const saleCounterId = "sales"

type counter struct {
	Id  string `bson:"_id"`
	Seq uint64 `bson:"seq"`
}

type impl struct {
	query query.Mongo
}

func NewSaleRepo(q query.Mongo) sale.Repo {
	return &impl{query: q}
}

// Indexes of the sales collection. The partial unique index on tokenId keeps
// at most one open sale per token.
func Indexes() []query.Index {
	return []query.Index{
		{
			Keys:    bson.D{{Key: "saleId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tokenId", Value: 1}},
			Options: options.Index().
				SetName("tokenId_open_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": sale.StatusOpen}),
		},
		{Keys: bson.D{{Key: "tokenId", Value: 1}, {Key: "saleId", Value: -1}}},
		{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "saleId", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "endTime", Value: 1}}},
		{Keys: bson.D{{Key: "intent.state", Value: 1}, {Key: "intent.createdAt", Value: 1}}},
	}
}

// EnsureIndexes creates the indexes the repo relies on.
func EnsureIndexes(ctx ctx.Ctx, q query.Mongo) error {
	return q.CreateIndexes(ctx, domain.TableSales, Indexes())
}

func (im *impl) NextSaleId(ctx ctx.Ctx) (sale.SaleId, error) {
	c := counter{}
	if err := im.query.IncrementMany(ctx, domain.TableSaleCounters, bson.M{"_id": saleCounterId}, bson.M{"seq": 1}, nil, &c); err != nil {
		ctx.WithField("err", err).Error("query.IncrementMany failed")
		return 0, err
	}
	return sale.SaleId(c.Seq), nil
}

func (im *impl) Create(ctx ctx.Ctx, s *sale.Sale) error {
	s.Seller = s.Seller.ToLower()
	if err := im.query.Insert(ctx, domain.TableSales, s); err == query.ErrDuplicateKey {
		return domain.ErrDuplicateActiveSale
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"saleId":  s.SaleId,
			"tokenId": s.TokenId,
			"err":     err,
		}).Error("query.Insert failed")
		return err
	}
	return nil
}

func (im *impl) FindOne(ctx ctx.Ctx, saleId sale.SaleId) (*sale.Sale, error) {
	res := &sale.Sale{}
	if err := im.query.FindOne(ctx, domain.TableSales, bson.M{"saleId": saleId}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"saleId": saleId,
			"err":    err,
		}).Error("query.FindOne failed")
		return nil, err
	}
	return res, nil
}

// FindActiveOrLast returns the newest sale of the token. A new sale cannot be
// created while one is open, so an open sale is always the newest.
func (im *impl) FindActiveOrLast(ctx ctx.Ctx, tokenId domain.TokenId) (*sale.Sale, error) {
	res := []*sale.Sale{}
	if err := im.query.Search(ctx, domain.TableSales, 0, 1, "-saleId", bson.M{"tokenId": tokenId}, &res); err != nil {
		ctx.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("query.Search failed")
		return nil, err
	}
	if len(res) == 0 {
		return nil, domain.ErrNotFound
	}
	return res[0], nil
}

func (im *impl) FindAll(ctx ctx.Ctx, optFns ...sale.FindAllOptionsFunc) ([]*sale.Sale, error) {
	opts, err := sale.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("sale.GetFindAllOptions failed")
		return nil, err
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}
	sort := "-saleId"
	if opts.Sort != nil {
		sort = *opts.Sort
	}

	q, err := makeQuery(&opts)
	if err != nil {
		ctx.WithField("err", err).Error("makeQuery failed")
		return nil, err
	}
	res := []*sale.Sale{}
	if err := im.query.Search(ctx, domain.TableSales, offset, limit, sort, q, &res); err != nil {
		ctx.WithFields(log.Fields{
			"query": q,
			"err":   err,
		}).Error("query.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(ctx ctx.Ctx, optFns ...sale.FindAllOptionsFunc) (int, error) {
	opts, err := sale.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("sale.GetFindAllOptions failed")
		return 0, err
	}

	q, err := makeQuery(&opts)
	if err != nil {
		ctx.WithField("err", err).Error("makeQuery failed")
		return 0, err
	}
	n, err := im.query.Count(ctx, domain.TableSales, q)
	if err != nil {
		ctx.WithFields(log.Fields{
			"query": q,
			"err":   err,
		}).Error("query.Count failed")
		return 0, err
	}
	return n, nil
}

func (im *impl) CompareAndSwap(ctx ctx.Ctx, s *sale.Sale, prevVersion uint64) error {
	selector := bson.M{"saleId": s.SaleId, "version": prevVersion}
	if err := im.query.Replace(ctx, domain.TableSales, selector, s); err == query.ErrNotFound {
		return domain.ErrVersionConflict
	} else if err == query.ErrDuplicateKey {
		return domain.ErrDuplicateActiveSale
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"saleId":      s.SaleId,
			"prevVersion": prevVersion,
			"err":         err,
		}).Error("query.Replace failed")
		return err
	}
	return nil
}

// selector holds the equality filters of a FindAll. Nil fields are left out.
type selector struct {
	TokenId     *domain.TokenId   `bson:"tokenId,omitempty"`
	Seller      *string           `bson:"seller,omitempty"`
	SaleType    *sale.SaleType    `bson:"saleType,omitempty"`
	IntentState *sale.IntentState `bson:"intent.state,omitempty"`
}

func makeQuery(opts *sale.FindAllOptions) (bson.M, error) {
	sel := selector{
		TokenId:     opts.TokenId,
		SaleType:    opts.SaleType,
		IntentState: opts.IntentState,
	}
	if opts.Seller != nil {
		seller := opts.Seller.ToLowerStr()
		sel.Seller = &seller
	}
	q, err := mongoclient.MakeBsonM(sel)
	if err != nil {
		return nil, err
	}

	if len(opts.Statuses) == 1 {
		q["status"] = opts.Statuses[0]
	} else if len(opts.Statuses) > 1 {
		q["status"] = bson.M{"$in": opts.Statuses}
	}
	if opts.EndTimeLT != nil {
		q["endTime"] = bson.M{"$lt": *opts.EndTimeLT}
	}
	if opts.IntentCreatedBefore != nil {
		q["intent.createdAt"] = bson.M{"$lt": *opts.IntentCreatedBefore}
	}
	if len(q) == 0 {
		q["_id"] = bson.M{"$exists": true}
	}
	return q, nil
}
