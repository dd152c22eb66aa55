package mux

import "net/http"

type roomCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

func (m *Mux) getRoomCounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, roomCountsResponse{
			Counts: m.pitBoss.RoomCounts(),
		})
	}
}
