package config

func Defaults() *Config {
	return &Config{
		Spark: SparkConfig{
			BaseURL:        "https://api.ciscospark.com",
			Token:          PlaceholderToken,
			AuthScheme:     "Bearer",
			TimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		LogLevel: "info",
	}
}
