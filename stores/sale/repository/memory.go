package repository

import (
	"sort"
	"strings"
	"sync"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
)

type memoryImpl struct {
	mu      sync.RWMutex
	seq     uint64
	sales   map[sale.SaleId]*sale.Sale
	active  map[domain.TokenId]sale.SaleId
	byToken map[domain.TokenId][]sale.SaleId
}

// NewMemorySaleRepo keeps sales in process. Stored values are copies, callers
// never share a *sale.Sale with the repo.
func NewMemorySaleRepo() sale.Repo {
	return &memoryImpl{
		sales:   map[sale.SaleId]*sale.Sale{},
		active:  map[domain.TokenId]sale.SaleId{},
		byToken: map[domain.TokenId][]sale.SaleId{},
	}
}

func (im *memoryImpl) NextSaleId(ctx ctx.Ctx) (sale.SaleId, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.seq++
	return sale.SaleId(im.seq), nil
}

func (im *memoryImpl) Create(ctx ctx.Ctx, s *sale.Sale) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	if _, ok := im.sales[s.SaleId]; ok {
		return domain.ErrBadParamInput
	}
	if s.Status == sale.StatusOpen {
		if _, ok := im.active[s.TokenId]; ok {
			return domain.ErrDuplicateActiveSale
		}
		im.active[s.TokenId] = s.SaleId
	}

	s.Seller = s.Seller.ToLower()
	im.sales[s.SaleId] = s.Clone()
	im.byToken[s.TokenId] = append(im.byToken[s.TokenId], s.SaleId)
	return nil
}

func (im *memoryImpl) FindOne(ctx ctx.Ctx, saleId sale.SaleId) (*sale.Sale, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	s, ok := im.sales[saleId]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.Clone(), nil
}

func (im *memoryImpl) FindActiveOrLast(ctx ctx.Ctx, tokenId domain.TokenId) (*sale.Sale, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	if id, ok := im.active[tokenId]; ok {
		return im.sales[id].Clone(), nil
	}
	ids := im.byToken[tokenId]
	if len(ids) == 0 {
		return nil, domain.ErrNotFound
	}
	last := ids[0]
	for _, id := range ids[1:] {
		if id > last {
			last = id
		}
	}
	return im.sales[last].Clone(), nil
}

func (im *memoryImpl) FindAll(ctx ctx.Ctx, optFns ...sale.FindAllOptionsFunc) ([]*sale.Sale, error) {
	opts, err := sale.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	im.mu.RLock()
	res := []*sale.Sale{}
	for _, s := range im.sales {
		if match(s, &opts) {
			res = append(res, s.Clone())
		}
	}
	im.mu.RUnlock()

	sortField := "-saleId"
	if opts.Sort != nil {
		sortField = *opts.Sort
	}
	sort.SliceStable(res, less(res, sortField))

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}
	if offset >= len(res) {
		return []*sale.Sale{}, nil
	}
	res = res[offset:]
	if limit > 0 && limit < len(res) {
		res = res[:limit]
	}
	return res, nil
}

func (im *memoryImpl) Count(ctx ctx.Ctx, optFns ...sale.FindAllOptionsFunc) (int, error) {
	opts, err := sale.GetFindAllOptions(optFns...)
	if err != nil {
		return 0, err
	}

	im.mu.RLock()
	defer im.mu.RUnlock()
	n := 0
	for _, s := range im.sales {
		if match(s, &opts) {
			n++
		}
	}
	return n, nil
}

func (im *memoryImpl) CompareAndSwap(ctx ctx.Ctx, s *sale.Sale, prevVersion uint64) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	cur, ok := im.sales[s.SaleId]
	if !ok || cur.Version != prevVersion {
		return domain.ErrVersionConflict
	}

	if s.Status == sale.StatusOpen {
		if id, ok := im.active[s.TokenId]; ok && id != s.SaleId {
			return domain.ErrDuplicateActiveSale
		}
		im.active[s.TokenId] = s.SaleId
	} else if id, ok := im.active[s.TokenId]; ok && id == s.SaleId {
		delete(im.active, s.TokenId)
	}

	im.sales[s.SaleId] = s.Clone()
	return nil
}

func match(s *sale.Sale, opts *sale.FindAllOptions) bool {
	if opts.TokenId != nil && s.TokenId != *opts.TokenId {
		return false
	}
	if opts.Seller != nil && !s.Seller.Equals(*opts.Seller) {
		return false
	}
	if len(opts.Statuses) > 0 {
		found := false
		for _, st := range opts.Statuses {
			if s.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if opts.SaleType != nil && s.SaleType != *opts.SaleType {
		return false
	}
	if opts.EndTimeLT != nil && !s.EndTime.Before(*opts.EndTimeLT) {
		return false
	}
	if opts.IntentState != nil && (s.Intent == nil || s.Intent.State != *opts.IntentState) {
		return false
	}
	if opts.IntentCreatedBefore != nil && (s.Intent == nil || !s.Intent.CreatedAt.Before(*opts.IntentCreatedBefore)) {
		return false
	}
	return true
}

// less supports the fields the http layer lets callers sort by.
func less(res []*sale.Sale, field string) func(i, j int) bool {
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")
	return func(i, j int) bool {
		a, b := res[i], res[j]
		if desc {
			a, b = b, a
		}
		switch field {
		case "endTime":
			if !a.EndTime.Equal(b.EndTime) {
				return a.EndTime.Before(b.EndTime)
			}
		case "startTime":
			if !a.StartTime.Equal(b.StartTime) {
				return a.StartTime.Before(b.StartTime)
			}
		case "createdAt":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.SaleId < b.SaleId
	}
}
