package repos

import (
	"slices"

	"github.com/architeacher/device-admin/internal/domain/model"
)

const connectDeviceInstructionsURL = "https://docs.microsoft.com/azure/iot-suite/iot-suite-connecting-devices"

// deviceTypes is fixed at build time; accessors hand out copies.
var deviceTypes = [...]model.DeviceType{
	{
		ID:                model.DeviceTypeSimulated,
		Name:              "Simulated Device",
		Description:       "Simulated devices are created and run by the solution's simulator and need no hardware.",
		IsSimulatedDevice: true,
	},
	{
		ID:              model.DeviceTypeCustom,
		Name:            "Custom Device",
		Description:     "Use this device type for hardware you build and connect yourself.",
		InstructionsURL: connectDeviceInstructionsURL,
	},
	{
		ID:              model.DeviceTypeMbed,
		Name:            "mbed Device",
		Description:     "An ARM mbed enabled development board running the remote monitoring client.",
		InstructionsURL: connectDeviceInstructionsURL,
	},
}

// DeviceTypesRepository serves the built-in device type catalog.
type DeviceTypesRepository struct{}

func NewDeviceTypesRepository() *DeviceTypesRepository {
	return &DeviceTypesRepository{}
}

// ListAll returns every device type in declaration order.
func (r *DeviceTypesRepository) ListAll() []model.DeviceType {
	return slices.Clone(deviceTypes[:])
}

// GetByID returns nil when no device type has that ID.
func (r *DeviceTypesRepository) GetByID(id model.DeviceTypeID) *model.DeviceType {
	index := slices.IndexFunc(deviceTypes[:], func(dt model.DeviceType) bool {
		return dt.ID == id
	})
	if index < 0 {
		return nil
	}

	deviceType := deviceTypes[index]

	return &deviceType
}
