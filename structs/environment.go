package structs

type EnvironmentModel struct {
	Database     database
	RabbitMQ     rabbitmq
	Log          log
	Server       server
	Router       router
	Auth         auth
	Media        media
	ShoppingList shoppingList
	Pagination   pagination
}

type server struct {
	AppAPI  string
	BaseURL string
}

type database struct {
	Client      string
	MaxIdle     uint
	MaxLifeTime string
	MaxOpenConn uint
	User        string
	Password    string
	Host        string
	Db          string
	Params      string
	Port        string
	LogEnable   int
}

type rabbitmq struct {
	Domain string
}

type log struct {
	ElkEnable      int
	ElkIndex       string
	ElkURL         string
	LogstashEnable int
	LogstashURL    string
	LogstashIndex  string
}

type router struct {
	Port int
}

type auth struct {
	Secret   string
	TokenTTL string
}

type media struct {
	Root string
	URL  string
}

type shoppingList struct {
	Locale string
}

type pagination struct {
	Limit int
}
