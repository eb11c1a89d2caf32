package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Game   GameConfig
}

type ServerConfig struct {
	Address string
}

// DBConfig 對局存檔用的資料庫設定，Host 留空時停用存檔
type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// GameConfig 遊戲行為的調整參數
type GameConfig struct {
	RoomCodeLength int    // 房間代碼長度
	GraceSeconds   int    // 斷線後保留座位的寬限期（秒）
	ScenarioFile   string // 留空時使用內建劇本
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	viper.SetDefault("server.address", ":3001")
	viper.SetDefault("game.roomcodelength", 6)
	viper.SetDefault("game.graceseconds", 30)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
