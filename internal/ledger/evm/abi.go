package evm

// HubABI covers the order views, fulfilment mutations and lifecycle events
// of the autobitstack hub contract.
const HubABI = `[
  {"type":"event","name":"DCAOrderCreated","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":false},{"name":"orderId","type":"uint256","indexed":false}]},
  {"type":"event","name":"DCAOrderCancelled","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":false},{"name":"orderId","type":"uint256","indexed":false}]},
  {"type":"event","name":"DCAOrderCompleted","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":false},{"name":"orderId","type":"uint256","indexed":false}]},
  {"type":"event","name":"LimitOrderCreated","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":false},{"name":"orderId","type":"uint256","indexed":false}]},
  {"type":"event","name":"LimitOrderCancelled","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":false},{"name":"orderId","type":"uint256","indexed":false}]},
  {"type":"event","name":"LimitOrderFulfilled","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":false},{"name":"orderId","type":"uint256","indexed":false}]},
  {"type":"function","name":"dcaOrders","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[{"name":"isActive","type":"bool"},{"name":"frequency","type":"uint8"},{"name":"totalFrequency","type":"uint256"},{"name":"amountPerSwap","type":"uint256"},{"name":"btcAddress","type":"string"},{"name":"tokenAddress","type":"address"}]},
  {"type":"function","name":"limitOrders","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[{"name":"isActive","type":"bool"},{"name":"amount","type":"uint256"},{"name":"priceTarget","type":"uint256"},{"name":"btcAddress","type":"string"},{"name":"tokenAddress","type":"address"}]},
  {"type":"function","name":"updateDCAOrder","stateMutability":"nonpayable","inputs":[{"name":"orderId","type":"uint256"},{"name":"destAddress","type":"string"}],"outputs":[]},
  {"type":"function","name":"fulfillLimitOrder","stateMutability":"nonpayable","inputs":[{"name":"orderId","type":"uint256"},{"name":"destAddress","type":"string"}],"outputs":[]}
]`
