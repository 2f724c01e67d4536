// Package message implements the typed SCCP message schema: one Go
// type per wire message, each able to encode/decode its fixed-width
// payload. Message ids below preserve the inbound/outbound split of
// real Skinny firmwares (requests in the low range, station replies
// at 0x0080+) but are not claimed to be bit-exact with any particular
// phone firmware - spec.md's Non-goals explicitly exclude that.
package message

// Inbound message ids (phone -> driver).
const (
	IDKeepAlive                 uint32 = 0x0000
	IDRegister                  uint32 = 0x0001
	IDIPPort                    uint32 = 0x0002
	IDKeypadButton              uint32 = 0x0003
	IDOffHook                   uint32 = 0x0006
	IDOnHook                    uint32 = 0x0007
	IDForwardStatusReq          uint32 = 0x0009
	IDCapabilitiesRes           uint32 = 0x0010
	IDLineStatusReq             uint32 = 0x000B
	IDConfigStatusReq           uint32 = 0x000C
	IDTimeDateReq               uint32 = 0x000D
	IDButtonTemplateReq         uint32 = 0x000E
	IDSoftKeyTemplateReq        uint32 = 0x0028
	IDAlarm                     uint32 = 0x0020
	IDSoftKeyEvent              uint32 = 0x0026
	IDOpenReceiveChannelAck     uint32 = 0x0022
	IDSoftKeySetReq             uint32 = 0x0025
	IDRegisterAvailableLines    uint32 = 0x002D
	IDStartMediaTransmissionAck uint32 = 0x0023
	IDSpeedDialStatReq          uint32 = 0x000A
	IDFeatureStatusReq          uint32 = 0x0021
	IDUnregister                uint32 = 0x0027
)

// Outbound message ids (driver -> phone).
const (
	IDKeepAliveAck            uint32 = 0x0100
	IDRegisterAck             uint32 = 0x0081
	IDRegisterRej             uint32 = 0x009D
	IDCapabilitiesReq         uint32 = 0x0095
	IDClearMessage            uint32 = 0x0115
	IDButtonTemplateRes       uint32 = 0x0097
	IDLineStatusRes           uint32 = 0x0098
	IDConfigStatusRes         uint32 = 0x0099
	IDDateTimeRes             uint32 = 0x0094
	IDSoftKeyTemplateRes      uint32 = 0x0108
	IDSoftKeySetRes           uint32 = 0x0109
	IDForwardStatusRes        uint32 = 0x0090
	IDSpeedDialStatRes        uint32 = 0x0091
	IDFeatureStat             uint32 = 0x0106
	IDOpenReceiveChannel      uint32 = 0x0105
	IDCloseReceiveChannel     uint32 = 0x0107
	IDStartMediaTransmission  uint32 = 0x008A
	IDStopMediaTransmission   uint32 = 0x008B
	IDCallState               uint32 = 0x0111
	IDCallInfo                uint32 = 0x008F
	IDDisplayMessage          uint32 = 0x0110
	IDSetLamp                 uint32 = 0x0086
	IDSetRinger               uint32 = 0x0085
	IDSetSpeakerMode          uint32 = 0x0119
	IDStartTone               uint32 = 0x0082
	IDStopTone                uint32 = 0x0083
	IDSelectSoftKeys          uint32 = 0x0112
	IDActivateCallPlane       uint32 = 0x0116
	IDReset                   uint32 = 0x008D
)

// Names is used purely for logging unknown/known message ids.
var Names = map[uint32]string{
	IDKeepAlive:                 "KEEP_ALIVE",
	IDRegister:                  "REGISTER",
	IDIPPort:                    "IP_PORT",
	IDKeypadButton:              "KEYPAD_BUTTON",
	IDOffHook:                   "OFFHOOK",
	IDOnHook:                    "ONHOOK",
	IDForwardStatusReq:          "FORWARD_STATUS_REQ",
	IDCapabilitiesRes:           "CAPABILITIES_RES",
	IDLineStatusReq:             "LINE_STATUS_REQ",
	IDConfigStatusReq:           "CONFIG_STATUS_REQ",
	IDTimeDateReq:               "TIME_DATE_REQ",
	IDButtonTemplateReq:         "BUTTON_TEMPLATE_REQ",
	IDSoftKeyTemplateReq:        "SOFTKEY_TEMPLATE_REQ",
	IDAlarm:                     "ALARM",
	IDSoftKeyEvent:              "SOFTKEY_EVENT",
	IDOpenReceiveChannelAck:     "OPEN_RECEIVE_CHANNEL_ACK",
	IDSoftKeySetReq:             "SOFTKEY_SET_REQ",
	IDRegisterAvailableLines:    "REGISTER_AVAILABLE_LINES",
	IDStartMediaTransmissionAck: "START_MEDIA_TRANSMISSION_ACK",
	IDSpeedDialStatReq:          "SPEEDDIAL_STAT_REQ",
	IDFeatureStatusReq:          "FEATURE_STATUS_REQ",
	IDUnregister:                "UNREGISTER",

	IDKeepAliveAck:           "KEEP_ALIVE_ACK",
	IDRegisterAck:            "REGISTER_ACK",
	IDRegisterRej:            "REGISTER_REJ",
	IDCapabilitiesReq:        "CAPABILITIES_REQ",
	IDClearMessage:           "CLEAR_MESSAGE",
	IDButtonTemplateRes:      "BUTTON_TEMPLATE_RES",
	IDLineStatusRes:          "LINE_STATUS_RES",
	IDConfigStatusRes:        "CONFIG_STATUS_RES",
	IDDateTimeRes:            "DATE_TIME_RES",
	IDSoftKeyTemplateRes:     "SOFTKEY_TEMPLATE_RES",
	IDSoftKeySetRes:          "SOFTKEY_SET_RES",
	IDForwardStatusRes:       "FORWARD_STATUS_RES",
	IDSpeedDialStatRes:       "SPEEDDIAL_STAT_RES",
	IDFeatureStat:            "FEATURE_STAT",
	IDOpenReceiveChannel:     "OPEN_RECEIVE_CHANNEL",
	IDCloseReceiveChannel:    "CLOSE_RECEIVE_CHANNEL",
	IDStartMediaTransmission: "START_MEDIA_TRANSMISSION",
	IDStopMediaTransmission:  "STOP_MEDIA_TRANSMISSION",
	IDCallState:              "CALL_STATE",
	IDCallInfo:               "CALL_INFO",
	IDDisplayMessage:         "DISPLAY_MESSAGE",
	IDSetLamp:                "SET_LAMP",
	IDSetRinger:              "SET_RINGER",
	IDSetSpeakerMode:         "SET_SPEAKER_MODE",
	IDStartTone:              "START_TONE",
	IDStopTone:               "STOP_TONE",
	IDSelectSoftKeys:         "SELECT_SOFT_KEYS",
	IDActivateCallPlane:      "ACTIVATE_CALL_PLANE",
	IDReset:                  "RESET",
}
