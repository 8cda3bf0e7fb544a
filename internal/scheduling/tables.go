package scheduling

import (
	"context"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// BatchTablesSpec describes a batch table creation request.  Prefix
// resolution is request prefix, then the zone's table_prefix, then
// the configured default.
type BatchTablesSpec struct {
	ZoneID         uint64
	Prefix         string
	Count          int
	StartingNumber int
	FillGaps       bool
	Capacity       uint32
}

// BatchCreateTables creates Count numbered tables in a zone in one
// all-or-nothing transaction.  The zone row is locked so that two
// concurrent batches cannot scan the same label set and allocate
// duplicates.  Any planned label that clashes with an existing one
// fails the whole batch with a ConflictError naming the label.
func (s *Service) BatchCreateTables(ctx context.Context, spec BatchTablesSpec, actor Actor) ([]*model.PhysicalTable, error) {
	if spec.Capacity == 0 {
		return nil, &ValidationError{Field: "capacity", Reason: "must be positive"}
	}
	var created []*model.PhysicalTable
	err := s.store.InTx(ctx, func(tx Tx) error {
		zone, err := tx.ZoneForUpdate(ctx, spec.ZoneID)
		if err != nil {
			return err
		}
		if zone == nil {
			return &NotFoundError{Entity: "zone", ID: spec.ZoneID}
		}
		if !s.canManage(ctx, actor, zone.ExhibitionID) {
			return &ForbiddenError{Reason: "batch table creation requires an organizer role"}
		}
		prefix := spec.Prefix
		if prefix == "" && zone.TablePrefix != nil {
			prefix = *zone.TablePrefix
		}
		if prefix == "" {
			prefix = s.cfg.TablePrefix
		}
		existing, err := tx.TableLabels(ctx, spec.ZoneID)
		if err != nil {
			return err
		}
		labels, err := PlanLabels(existing, prefix, spec.Count, spec.StartingNumber, spec.FillGaps)
		if err != nil {
			return err
		}
		tables := make([]*model.PhysicalTable, 0, len(labels))
		for _, label := range labels {
			tables = append(tables, &model.PhysicalTable{
				ZoneID:   spec.ZoneID,
				Label:    label,
				Capacity: spec.Capacity,
				Status:   model.TableStatusAvailable,
			})
		}
		if err := tx.CreateTables(ctx, tables); err != nil {
			return err
		}
		created = tables
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
