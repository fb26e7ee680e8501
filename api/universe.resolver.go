package api

import (
	"github.com/gin-gonic/gin"
)

func (m ApiHandler) universe(c *gin.Context) {
	securities, err := m.CompanyRepository.ListActive()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"message": "ok",
		"data":    securities,
	})
}

func (m ApiHandler) universeStats(c *gin.Context) {
	stats, err := m.CompanyRepository.Stats()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"message": "ok",
		"data":    stats,
	})
}
