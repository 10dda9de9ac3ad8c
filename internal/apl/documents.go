// Package apl builds the visual templates rendered on screen devices.
// The document layout is an external contract with the APL renderer;
// treat the structures as opaque.
package apl

import (
	"fmt"

	"backend/internal/catalog"
	"backend/internal/store"
)

const version = "2023.3"

var background = map[string]any{
	"type":       "LinearGradient",
	"colorRange": []string{"#0f0f23", "#1a1a2e", "#16213e"},
	"inputRange": []float64{0, 0.5, 1},
	"angle":      135,
}

func document(items ...map[string]any) map[string]any {
	return map[string]any{
		"type":    "APL",
		"version": version,
		"mainTemplate": map[string]any{
			"parameters": []string{"payload"},
			"items":      items,
		},
	}
}

// ProductsDocument is the numbered, scrollable product list shown after
// a search.
func ProductsDocument(query string) map[string]any {
	return document(map[string]any{
		"type":           "Container",
		"width":          "100vw",
		"height":         "100vh",
		"direction":      "column",
		"justifyContent": "spaceBetween",
		"background":     background,
		"items": []map[string]any{
			{
				"type":          "Container",
				"width":         "100%",
				"paddingTop":    30,
				"paddingLeft":   40,
				"paddingRight":  40,
				"paddingBottom": 20,
				"items": []map[string]any{
					{
						"type":       "Text",
						"text":       fmt.Sprintf("Shopping Results: %s", query),
						"fontSize":   26,
						"fontWeight": "bold",
						"color":      "#00d4ff",
						"textAlign":  "center",
					},
				},
			},
			{
				"type":            "Sequence",
				"width":           "100%",
				"height":          "75vh",
				"paddingLeft":     40,
				"paddingRight":    40,
				"scrollDirection": "vertical",
				"data":            "${payload.products}",
				"numbered":        true,
				"items": []map[string]any{
					{
						"type":         "Container",
						"width":        "100%",
						"background":   "rgba(255, 255, 255, 0.05)",
						"borderRadius": 20,
						"padding":      25,
						"marginBottom": 20,
						"items": []map[string]any{
							{
								"type":      "Container",
								"direction": "row",
								"items": []map[string]any{
									{
										"type":         "Image",
										"source":       "${data.image_url}",
										"width":        150,
										"height":       150,
										"scale":        "best-fit",
										"borderRadius": 15,
									},
									{
										"type":        "Container",
										"paddingLeft": 25,
										"grow":        1,
										"items": []map[string]any{
											{
												"type":       "Text",
												"text":       "${data.name}",
												"fontSize":   20,
												"fontWeight": "bold",
												"color":      "#ffffff",
												"maxLines":   2,
											},
											{
												"type":      "Container",
												"direction": "row",
												"marginTop": 10,
												"items": []map[string]any{
													{
														"type":       "Text",
														"text":       "$${data.price}",
														"fontSize":   28,
														"fontWeight": "bold",
														"color":      "#00ff88",
													},
													{
														"type":        "Text",
														"text":        "${data.rating}/5",
														"paddingLeft": 20,
														"fontSize":    14,
														"color":       "#ffd700",
													},
												},
											},
											{
												"type":      "Text",
												"text":      "${data.description}",
												"fontSize":  14,
												"color":     "#cbd5e0",
												"maxLines":  2,
												"marginTop": 10,
											},
											{
												"type":         "Container",
												"marginTop":    15,
												"padding":      15,
												"background":   "#00ff88",
												"borderRadius": 12,
												"items": []map[string]any{
													{
														"type":       "Text",
														"text":       "Say: Add item ${index+1}",
														"fontSize":   14,
														"fontWeight": "bold",
														"color":      "#0f0f23",
														"textAlign":  "center",
													},
												},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	})
}

// ProductsDatasource binds the ranked products into the list template.
func ProductsDatasource(products []catalog.Product, query string) map[string]any {
	return map[string]any{
		"payload": map[string]any{
			"products": products,
			"query":    query,
		},
	}
}

// CartDocument is the cart review screen with the checkout hint.
func CartDocument() map[string]any {
	return document(map[string]any{
		"type":       "Container",
		"width":      "100vw",
		"height":     "100vh",
		"direction":  "column",
		"background": background,
		"items": []map[string]any{
			{
				"type":    "Container",
				"padding": 40,
				"items": []map[string]any{
					{
						"type":         "Text",
						"text":         "Your Shopping Cart",
						"fontSize":     32,
						"fontWeight":   "bold",
						"color":        "#00d4ff",
						"marginBottom": 30,
					},
					{
						"type":   "Sequence",
						"height": "50vh",
						"data":   "${payload.cartItems}",
						"items": []map[string]any{
							{
								"type":         "Container",
								"width":        "100%",
								"background":   "rgba(0, 255, 136, 0.1)",
								"borderRadius": 15,
								"padding":      20,
								"marginBottom": 15,
								"items": []map[string]any{
									{
										"type":      "Container",
										"direction": "row",
										"items": []map[string]any{
											{
												"type":         "Image",
												"source":       "${data.image_url}",
												"width":        80,
												"height":       80,
												"scale":        "best-fit",
												"borderRadius": 10,
											},
											{
												"type":        "Container",
												"paddingLeft": 20,
												"grow":        1,
												"items": []map[string]any{
													{
														"type":       "Text",
														"text":       "${data.name}",
														"fontSize":   18,
														"fontWeight": "bold",
														"color":      "#ffffff",
													},
													{
														"type":       "Text",
														"text":       "$${data.price}",
														"fontSize":   22,
														"fontWeight": "bold",
														"color":      "#00ff88",
														"marginTop":  5,
													},
												},
											},
										},
									},
								},
							},
						},
					},
					{
						"type":         "Container",
						"marginTop":    30,
						"padding":      30,
						"background":   "rgba(0, 212, 255, 0.1)",
						"borderRadius": 20,
						"items": []map[string]any{
							{
								"type":           "Container",
								"direction":      "row",
								"justifyContent": "spaceBetween",
								"items": []map[string]any{
									{
										"type":       "Text",
										"text":       "Total:",
										"fontSize":   26,
										"fontWeight": "bold",
										"color":      "#ffffff",
									},
									{
										"type":       "Text",
										"text":       "$${payload.cartTotal}",
										"fontSize":   36,
										"fontWeight": "bold",
										"color":      "#00ff88",
									},
								},
							},
							{
								"type":         "Container",
								"marginTop":    20,
								"padding":      20,
								"background":   "#00d4ff",
								"borderRadius": 15,
								"items": []map[string]any{
									{
										"type":       "Text",
										"text":       "Say: Checkout now",
										"fontSize":   20,
										"fontWeight": "bold",
										"color":      "#0f0f23",
										"textAlign":  "center",
									},
								},
							},
						},
					},
				},
			},
		},
	})
}

// CartDatasource binds the cart items and formatted total.
func CartDatasource(cart store.Cart) map[string]any {
	return map[string]any{
		"payload": map[string]any{
			"cartItems": cart.Items,
			"cartTotal": fmt.Sprintf("%.2f", cart.Total),
		},
	}
}

// ConfirmationDocument is the order receipt screen.
func ConfirmationDocument() map[string]any {
	return document(map[string]any{
		"type":           "Container",
		"width":          "100vw",
		"height":         "100vh",
		"alignItems":     "center",
		"justifyContent": "center",
		"background":     background,
		"items": []map[string]any{
			{
				"type":         "Container",
				"width":        "70%",
				"padding":      50,
				"background":   "rgba(0, 255, 136, 0.1)",
				"borderRadius": 30,
				"items": []map[string]any{
					{
						"type":         "Text",
						"text":         "Order Confirmed!",
						"fontSize":     42,
						"fontWeight":   "bold",
						"color":        "#00ff88",
						"textAlign":    "center",
						"marginBottom": 30,
					},
					{
						"type":         "Text",
						"text":         "Order #${payload.orderId}",
						"fontSize":     24,
						"color":        "#ffffff",
						"textAlign":    "center",
						"marginBottom": 20,
					},
					{
						"type":           "Container",
						"direction":      "row",
						"justifyContent": "spaceBetween",
						"width":          "100%",
						"marginBottom":   30,
						"items": []map[string]any{
							{
								"type":     "Text",
								"text":     "Total Paid:",
								"fontSize": 20,
								"color":    "#cbd5e0",
							},
							{
								"type":       "Text",
								"text":       "$${payload.orderTotal}",
								"fontSize":   28,
								"fontWeight": "bold",
								"color":      "#00ff88",
							},
						},
					},
					{
						"type":         "Text",
						"text":         "Tracking: ${payload.trackingNumber}",
						"fontSize":     16,
						"color":        "#00d4ff",
						"textAlign":    "center",
						"marginBottom": 10,
					},
					{
						"type":      "Text",
						"text":      "Estimated Delivery: ${payload.delivery}",
						"fontSize":  14,
						"color":     "#a0a0a0",
						"textAlign": "center",
					},
				},
			},
		},
	})
}

// ConfirmationDatasource binds the order receipt fields.
func ConfirmationDatasource(order store.Order) map[string]any {
	return map[string]any{
		"payload": map[string]any{
			"orderId":        order.OrderID,
			"orderTotal":     fmt.Sprintf("%.2f", order.Total),
			"trackingNumber": order.TrackingNumber,
			"delivery":       order.EstimatedDelivery,
		},
	}
}
