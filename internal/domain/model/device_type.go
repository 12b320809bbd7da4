package model

type DeviceTypeID int

const (
	DeviceTypeSimulated DeviceTypeID = 1
	DeviceTypeCustom    DeviceTypeID = 2
	DeviceTypeMbed      DeviceTypeID = 3
)

type DeviceType struct {
	ID                DeviceTypeID `json:"deviceTypeId"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	InstructionsURL   string       `json:"instructionsUrl,omitempty"`
	IsSimulatedDevice bool         `json:"isSimulatedDevice"`
}
