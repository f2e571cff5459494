package http

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"

	"github.com/mindcare/signaling/internal/app/orch"
	"github.com/mindcare/signaling/internal/config"
)

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "MindCare signaling is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handlePresence exposes the online participant snapshot so the
// dashboards can render counselor/student availability.
func handlePresence(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		users := o.Presence.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"count": len(users),
			"users": users,
		})
	}
}

func handleRooms(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"rooms":       o.Rooms.List(),
			"connections": o.Registry.Count(),
		})
	}
}

// handleIceServers hands the call UI its ICE configuration. TURN
// credentials are time-limited, derived from the shared secret the
// TURN server was started with (coturn static-auth-secret scheme).
func handleIceServers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		servers := []webrtc.ICEServer{
			{URLs: cfg.STUNURLs},
		}

		if len(cfg.Turn.URLs) > 0 {
			expiration := time.Now().Add(cfg.Turn.CredentialTTL).Unix()
			username := fmt.Sprintf("%d", expiration)

			mac := hmac.New(sha1.New, []byte(cfg.Turn.Secret))
			mac.Write([]byte(username))
			password := base64.StdEncoding.EncodeToString(mac.Sum(nil))

			servers = append(servers, webrtc.ICEServer{
				URLs:       cfg.Turn.URLs,
				Username:   username,
				Credential: password,
			})
		}

		c.JSON(http.StatusOK, gin.H{"iceServers": servers})
	}
}
