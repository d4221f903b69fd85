package realtime

import "github.com/yungbote/facilitator-console/internal/upload"

// UploadMessage maps an upload state change onto the owning session's channel.
func UploadMessage(ev upload.SessionEvent) SSEMessage {
	event := SSEEventUploadStateChanged
	switch {
	case ev.State.Error != "":
		event = SSEEventUploadFailed
	case !ev.State.Uploading && ev.State.Progress == 100 && ev.State.URL != "":
		event = SSEEventUploadCompleted
	}
	return SSEMessage{Channel: ev.SessionID, Event: event, Data: ev.Event}
}
