package api

// Service accessors group Client methods by resource.
// Each service embeds *Client so the shared pipeline is reused.

type DeviceService struct{ *Client }

type PurchaseService struct{ *Client }

type PromoService struct{ *Client }

type ProductsService struct{ *Client }

type TicketsService struct{ *Client }

type AppStoreService struct{ *Client }

func (c *Client) Device() DeviceService {
	return DeviceService{c}
}

func (c *Client) Purchase() PurchaseService {
	return PurchaseService{c}
}

func (c *Client) Promo() PromoService {
	return PromoService{c}
}

func (c *Client) Products() ProductsService {
	return ProductsService{c}
}

func (c *Client) Tickets() TicketsService {
	return TicketsService{c}
}

func (c *Client) AppStore() AppStoreService {
	return AppStoreService{c}
}
