package repos

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/architeacher/device-admin/internal/adapters/tablestore"
	"github.com/architeacher/device-admin/internal/domain/model"
	"github.com/architeacher/device-admin/internal/ports"
	"github.com/architeacher/device-admin/pkg/logger"
)

const (
	// QueryPartitionKey groups every saved device list query in the table.
	QueryPartitionKey = "query"

	DefaultRecentQueriesLimit = 20
)

type (
	// TableClient is the table store the repository persists queries in.
	TableClient interface {
		ExecuteQuery(ctx context.Context, q tablestore.Query) ([]tablestore.Entity, error)
		InsertOrReplace(ctx context.Context, entity tablestore.Entity, mode model.ConcurrencyMode) (tablestore.Response, error)
		Touch(ctx context.Context, partitionKey, rowKey string) (tablestore.Response, error)
		Delete(ctx context.Context, entity tablestore.Entity, mode model.ConcurrencyMode) (tablestore.Response, error)
		Ping(ctx context.Context) error
	}

	// DeviceListQueryRepository stores named device list queries, one row per
	// query keyed by its name.
	DeviceListQueryRepository struct {
		client TableClient
		logger logger.Logger
	}
)

func NewDeviceListQueryRepository(client TableClient, log logger.Logger) *DeviceListQueryRepository {
	return &DeviceListQueryRepository{
		client: client,
		logger: log.Component("device_list_query_repository"),
	}
}

func (r *DeviceListQueryRepository) NameExists(ctx context.Context, name string) (bool, error) {
	if !storableName(name) {
		return false, nil
	}

	entities, err := r.client.ExecuteQuery(ctx, tablestore.NewQuery(QueryPartitionKey).WhereRowKey(name))
	if err != nil {
		return false, err
	}

	return len(entities) > 0, nil
}

// GetByName returns nil and no error when no query has that name.
func (r *DeviceListQueryRepository) GetByName(ctx context.Context, name string) (*model.DeviceListQuery, error) {
	if !storableName(name) {
		return nil, nil
	}

	entities, err := r.client.ExecuteQuery(ctx, tablestore.NewQuery(QueryPartitionKey).WhereRowKey(name))
	if err != nil {
		return nil, err
	}

	if len(entities) == 0 {
		return nil, nil
	}

	return r.toModel(ctx, entities[0]), nil
}

// Save stores query. Unless WithForce is given, an existing query with the same
// name is left alone and Save reports false. A blank name is declined. The
// existence check and the write are separate round trips, so concurrent saves
// of a new name race in storage.
func (r *DeviceListQueryRepository) Save(ctx context.Context, query *model.DeviceListQuery, opts ...ports.SaveOption) (bool, error) {
	if strings.TrimSpace(query.Name) == "" || !storableName(query.Name) {
		return false, nil
	}

	options := ports.NewSaveOptions(opts...)

	if !options.Force {
		exists, err := r.NameExists(ctx, query.Name)
		if err != nil {
			return false, err
		}

		if exists {
			return false, nil
		}
	}

	filters, err := model.EncodeFilters(query.Filters)
	if err != nil {
		return false, err
	}

	entity := tablestore.Entity{
		PartitionKey: QueryPartitionKey,
		RowKey:       query.Name,
		Name:         query.Name,
		Filters:      filters,
		SortColumn:   query.SortColumn,
		SortOrder:    query.SortOrder.String(),
		SQL:          query.SQL,
		IsAdvanced:   query.IsAdvanced,
	}

	response, err := r.client.InsertOrReplace(ctx, entity, options.Mode)
	if err != nil {
		return false, err
	}

	return response.IsSuccessful(), nil
}

// Touch refreshes the stored timestamp of a query so it ranks first in
// ListRecent. An empty name is rejected without contacting storage.
func (r *DeviceListQueryRepository) Touch(ctx context.Context, name string) (bool, error) {
	if name == "" || !storableName(name) {
		return false, nil
	}

	response, err := r.client.Touch(ctx, QueryPartitionKey, name)
	if err != nil {
		return false, err
	}

	return response.IsSuccessful(), nil
}

// Delete reports false when there was nothing to delete.
func (r *DeviceListQueryRepository) Delete(ctx context.Context, name string) (bool, error) {
	if !storableName(name) {
		return false, nil
	}

	entity := tablestore.Entity{PartitionKey: QueryPartitionKey, RowKey: name}

	response, err := r.client.Delete(ctx, entity, model.Unconditional())
	if err != nil {
		return false, err
	}

	return response.IsSuccessful(), nil
}

// ListRecent returns queries most recently written first. A non-positive limit
// returns all of them.
func (r *DeviceListQueryRepository) ListRecent(ctx context.Context, limit int) ([]*model.DeviceListQuery, error) {
	entities, err := r.client.ExecuteQuery(ctx, tablestore.NewQuery(QueryPartitionKey))
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(entities, func(a, b tablestore.Entity) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	if limit > 0 && len(entities) > limit {
		entities = entities[:limit]
	}

	queries := make([]*model.DeviceListQuery, 0, len(entities))
	for index := range entities {
		queries = append(queries, r.toModel(ctx, entities[index]))
	}

	return queries, nil
}

func (r *DeviceListQueryRepository) ListNames(ctx context.Context) ([]string, error) {
	entities, err := r.client.ExecuteQuery(ctx, tablestore.NewQuery(QueryPartitionKey))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entities))
	for index := range entities {
		names = append(names, entityName(entities[index]))
	}

	slices.SortFunc(names, cmp.Compare[string])

	return names, nil
}

func (r *DeviceListQueryRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// toModel never fails: a corrupt filters blob is logged and read as no filters.
func (r *DeviceListQueryRepository) toModel(ctx context.Context, entity tablestore.Entity) *model.DeviceListQuery {
	filters, err := model.DecodeFilters(entity.Filters)
	if err != nil {
		log := r.logger.WithContext(ctx)
		log.Error().
			Err(err).
			Str("query_name", entity.RowKey).
			Str("filters", entity.Filters).
			Msg("cannot decode stored query filters, treating as empty")
	}

	return &model.DeviceListQuery{
		Name:       entityName(entity),
		Filters:    filters,
		SQL:        entity.SQL,
		IsAdvanced: entity.IsAdvanced,
		SortColumn: entity.SortColumn,
		SortOrder:  model.ParseSortOrder(entity.SortOrder),
		Timestamp:  entity.Timestamp,
	}
}

// storableName reports whether name can be a row key. PostgreSQL text holds
// neither NUL nor invalid UTF-8, so no such query can have been stored.
func storableName(name string) bool {
	return utf8.ValidString(name) && !strings.ContainsRune(name, 0)
}

// entityName falls back to the row key for rows created by Touch, which
// carry no payload.
func entityName(entity tablestore.Entity) string {
	if entity.Name != "" {
		return entity.Name
	}

	return entity.RowKey
}
