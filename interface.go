package wlclient

// Method describes one request of an interface: its name and the signature
// string that drives marshaling.
type Method struct {
	Name      string
	Signature string
}

// Event describes one event of an interface.
type Event struct {
	Name      string
	Signature string
}

// Interface is the static description of an object kind. Descriptors are
// process-wide constants shared by every proxy of the same kind.
type Interface struct {
	Name    string
	Version uint32
	Methods []Method
	Events  []Event
}

// The display object always has id 1; id 0 never names an object.
const (
	invalidID uint32 = 0
	displayID uint32 = 1
)

// Display events.
const (
	displayEventInvalidObject uint16 = 0
	displayEventInvalidMethod uint16 = 1
	displayEventNoMemory      uint16 = 2
	displayEventGlobal        uint16 = 3
)

// Compositor requests and events.
const (
	compositorRequestCreateSurface uint16 = 0
	compositorRequestCommit        uint16 = 1

	CompositorEventAcknowledge uint16 = 0
	CompositorEventFrame       uint16 = 1
)

// Surface requests.
const (
	surfaceRequestDestroy uint16 = 0
	surfaceRequestAttach  uint16 = 1
	surfaceRequestMap     uint16 = 2
	surfaceRequestCopy    uint16 = 3
	surfaceRequestDamage  uint16 = 4
)

// Input device events.
const (
	InputDeviceEventMotion uint16 = 0
	InputDeviceEventButton uint16 = 1
	InputDeviceEventKey    uint16 = 2
)

var DisplayInterface = &Interface{
	Name:    "display",
	Version: 1,
	Events: []Event{
		{"invalid_object", "u"},
		{"invalid_method", "uu"},
		{"no_memory", ""},
		{"global", "osu"},
	},
}

var CompositorInterface = &Interface{
	Name:    "compositor",
	Version: 1,
	Methods: []Method{
		{"create_surface", "n"},
		{"commit", "u"},
	},
	Events: []Event{
		{"acknowledge", "uu"},
		{"frame", "uu"},
	},
}

var SurfaceInterface = &Interface{
	Name:    "surface",
	Version: 1,
	Methods: []Method{
		{"destroy", ""},
		{"attach", "uuuuo"},
		{"map", "iiii"},
		{"copy", "iiuuiiii"},
		{"damage", "iiii"},
	},
}

var VisualInterface = &Interface{
	Name:    "visual",
	Version: 1,
}

var InputDeviceInterface = &Interface{
	Name:    "input_device",
	Version: 1,
	Events: []Event{
		{"motion", "iiii"},
		{"button", "uuiiii"},
		{"key", "uu"},
	},
}
