package ports

import "github.com/architeacher/device-admin/internal/domain/model"

// DeviceTypeRepository exposes the fixed catalog of device types.
type DeviceTypeRepository interface {
	ListAll() []model.DeviceType
	GetByID(id model.DeviceTypeID) *model.DeviceType
}
