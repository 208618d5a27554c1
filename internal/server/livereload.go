package server

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/nacara/nacara/internal/watcher"
)

// LiveReloadPath is the websocket endpoint the injected script connects to.
const LiveReloadPath = "/__nacara/livereload"

// Message is sent to the browsers after a rebuild. A reload without a page
// applies to every open page; a reload naming a page only to the tabs
// showing it. Problems lists what the last build reported for that page.
type Message struct {
	Type     string   `json:"type"`
	Page     string   `json:"page,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

const (
	MessageReload     = "reload"
	MessageRefreshCSS = "refreshCSS"
)

func (m Message) encode() []byte {
	data, _ := json.Marshal(m)
	return data
}

const liveReloadScript = `<script>
(function () {
  var protocol = location.protocol === "https:" ? "wss://" : "ws://";
  function connect() {
    var socket = new WebSocket(protocol + location.host + "` + LiveReloadPath + `");
    socket.onmessage = function (event) {
      var message = JSON.parse(event.data);
      if (message.type === "reload") {
        if (!message.page || location.pathname.indexOf("/" + message.page) === 0) {
          (message.problems || []).forEach(function (problem) {
            console.warn("nacara:", problem);
          });
          location.reload();
        }
      } else if (message.type === "refreshCSS") {
        document.querySelectorAll('link[rel="stylesheet"]').forEach(function (link) {
          var url = new URL(link.href);
          url.searchParams.set("nacara", Date.now());
          link.href = url.toString();
        });
      }
    };
    socket.onclose = function () {
      setTimeout(connect, 5000);
    };
  }
  connect();
})();
</script>
`

// messageFor decides what a batch of source changes means for the browsers.
// pageID resolves a source path to the id of the page built from it.
func messageFor(events []watcher.ChangeEvent, pageID func(string) (string, bool)) Message {
	if len(events) == 0 {
		return Message{Type: MessageReload}
	}

	stylesOnly := true
	for _, event := range events {
		if !strings.EqualFold(filepath.Ext(event.Path), ".css") {
			stylesOnly = false
			break
		}
	}
	if stylesOnly {
		return Message{Type: MessageRefreshCSS}
	}

	if len(events) == 1 && events[0].Type != watcher.EventTypeDeleted {
		if id, ok := pageID(events[0].Path); ok {
			return Message{Type: MessageReload, Page: id}
		}
	}
	return Message{Type: MessageReload}
}
